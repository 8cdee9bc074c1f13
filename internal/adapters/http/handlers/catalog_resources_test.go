package handlers

import (
	"testing"

	"labis-admin/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvinceValidation(t *testing.T) {
	desc := provinceDescriptor(nil)

	t.Run("create requires code and name", func(t *testing.T) {
		err := desc.Validate(&ProvinceRequest{}, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "provinceCode")

		err = desc.Validate(&ProvinceRequest{ProvinceCode: "01"}, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "provinceName")

		err = desc.Validate(&ProvinceRequest{ProvinceCode: "01", ProvinceName: "Hà Nội"}, false)
		assert.NoError(t, err)
	})

	t.Run("update accepts blanks", func(t *testing.T) {
		assert.NoError(t, desc.Validate(&ProvinceRequest{}, true))
	})

	t.Run("code length is bounded", func(t *testing.T) {
		err := desc.Validate(&ProvinceRequest{
			ProvinceCode: "0123456789012345678901",
			ProvinceName: "Hà Nội",
		}, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at most 20")
	})
}

func TestProvinceApplyPartialUpdate(t *testing.T) {
	desc := provinceDescriptor(nil)

	province := &models.Province{
		ProvinceCode: "01",
		ProvinceName: "Thành phố Hà Nội",
		ShortName:    "Hà Nội",
		CatalogBase:  models.CatalogBase{IsActive: true},
	}

	// A partial update only overwrites provided fields
	desc.Apply(province, &ProvinceRequest{ShortName: "HN"}, true)
	assert.Equal(t, "01", province.ProvinceCode)
	assert.Equal(t, "Thành phố Hà Nội", province.ProvinceName)
	assert.Equal(t, "HN", province.ShortName)
	assert.True(t, province.IsActive, "active flag untouched when absent")

	// The active flag only changes when explicitly provided
	inactive := false
	desc.Apply(province, &ProvinceRequest{IsActive: &inactive}, true)
	assert.False(t, province.IsActive)
	assert.Equal(t, "HN", province.ShortName, "other fields untouched")
}

func TestProvinceApplyCreateDefaultsToActive(t *testing.T) {
	desc := provinceDescriptor(nil)

	province := &models.Province{}
	desc.Apply(province, &ProvinceRequest{ProvinceCode: "79", ProvinceName: "TP.HCM"}, false)
	assert.True(t, province.IsActive)

	inactive := false
	fresh := &models.Province{}
	desc.Apply(fresh, &ProvinceRequest{ProvinceCode: "79", ProvinceName: "TP.HCM", IsActive: &inactive}, false)
	assert.False(t, fresh.IsActive)
}

func TestWardValidationRequiresProvince(t *testing.T) {
	desc := wardDescriptor(nil)

	err := desc.Validate(&WardRequest{WardCode: "W1", WardName: "Ba Đình"}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provinceId")

	err = desc.Validate(&WardRequest{WardCode: "W1", WardName: "Ba Đình", ProvinceID: "p1"}, false)
	assert.NoError(t, err)
}

func TestServiceValidationBounds(t *testing.T) {
	desc := serviceDescriptor(nil)

	negativePrice := -1.0
	err := desc.Validate(&ServiceRequest{
		ServiceCode:  "SV1",
		ServiceName:  "Tổng phân tích tế bào máu",
		CurrentPrice: &negativePrice,
	}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currentPrice")

	negativeOrder := -2
	err = desc.Validate(&ServiceRequest{
		ServiceCode: "SV1",
		ServiceName: "Tổng phân tích tế bào máu",
		NumOrder:    &negativeOrder,
	}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numOrder")
}

func TestServiceApplyClearsOptionalRefs(t *testing.T) {
	desc := serviceDescriptor(nil)

	groupID := "g1"
	service := &models.Service{
		ServiceCode:    "SV1",
		ServiceName:    "CTM",
		ServiceGroupID: &groupID,
	}

	// Optional references stay put on partial updates when absent
	desc.Apply(service, &ServiceRequest{ShortName: "CTM18"}, true)
	require.NotNil(t, service.ServiceGroupID)
	assert.Equal(t, "g1", *service.ServiceGroupID)

	// Pricing only changes when provided
	price := 120000.0
	desc.Apply(service, &ServiceRequest{CurrentPrice: &price}, true)
	require.NotNil(t, service.CurrentPrice)
	assert.Equal(t, 120000.0, *service.CurrentPrice)

	desc.Apply(service, &ServiceRequest{ShortName: "x"}, true)
	require.NotNil(t, service.CurrentPrice, "price survives unrelated updates")
}

func TestDescriptorCodeExtraction(t *testing.T) {
	assert.Equal(t, "01", provinceDescriptor(nil).CodeOf(&ProvinceRequest{ProvinceCode: "01"}))
	assert.Equal(t, "province_code", provinceDescriptor(nil).CodeColumn)
	assert.Equal(t, "W1", wardDescriptor(nil).CodeOf(&WardRequest{WardCode: "W1"}))
	assert.Equal(t, "CAT1", categoryDescriptor(nil).CodeOf(&CategoryRequest{Code: "CAT1"}))
}
