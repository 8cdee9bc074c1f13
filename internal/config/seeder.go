package config

import (
	"log"

	"labis-admin/internal/adapters/persistence/models"
	"labis-admin/internal/pkg/password"

	"gorm.io/gorm"
)

// Seed creates the initial admin account and a minimal set of reference
// data on an empty database. Existing rows are never touched.
func Seed(db *gorm.DB) error {
	if err := seedAdminUser(db); err != nil {
		return err
	}
	if err := seedCatalog(db); err != nil {
		return err
	}
	return nil
}

// seedAdminUser creates the default admin when no user exists yet
func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash(getEnv("ADMIN_PASSWORD", "admin@123456"))
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: getEnv("ADMIN_USERNAME", "admin"),
		Email:    getEnv("ADMIN_EMAIL", "admin@labis.local"),
		Password: hashed,
		FullName: "System Administrator",
		Role:     "ADMIN",
		IsActive: true,
	}

	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("🌱 Seeded admin account: %s", admin.Username)
	return nil
}

// seedCatalog inserts a starter set of reference data when the catalog
// tables are empty
func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Province{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	provinces := []*models.Province{
		{ProvinceCode: "01", ProvinceName: "Thành phố Hà Nội", ShortName: "Hà Nội", CatalogBase: models.CatalogBase{IsActive: true}},
		{ProvinceCode: "79", ProvinceName: "Thành phố Hồ Chí Minh", ShortName: "TP.HCM", CatalogBase: models.CatalogBase{IsActive: true}},
		{ProvinceCode: "48", ProvinceName: "Thành phố Đà Nẵng", ShortName: "Đà Nẵng", CatalogBase: models.CatalogBase{IsActive: true}},
	}
	if err := db.Create(&provinces).Error; err != nil {
		return err
	}

	departmentTypes := []*models.DepartmentType{
		{TypeCode: "LS", TypeName: "Khoa lâm sàng", CatalogBase: models.CatalogBase{IsActive: true}},
		{TypeCode: "CLS", TypeName: "Khoa cận lâm sàng", CatalogBase: models.CatalogBase{IsActive: true}},
		{TypeCode: "HC", TypeName: "Phòng hành chính", CatalogBase: models.CatalogBase{IsActive: true}},
	}
	if err := db.Create(&departmentTypes).Error; err != nil {
		return err
	}

	sampleTypes := []*models.SampleType{
		{TypeCode: "BLOOD", TypeName: "Máu", ShortName: "Máu", CatalogBase: models.CatalogBase{IsActive: true}},
		{TypeCode: "URINE", TypeName: "Nước tiểu", ShortName: "NT", CatalogBase: models.CatalogBase{IsActive: true}},
		{TypeCode: "SWAB", TypeName: "Dịch phết", ShortName: "DP", CatalogBase: models.CatalogBase{IsActive: true}},
	}
	if err := db.Create(&sampleTypes).Error; err != nil {
		return err
	}

	unitOfMeasures := []*models.UnitOfMeasure{
		{UnitOfMeasureCode: "TEST", UnitOfMeasureName: "Lần xét nghiệm", CatalogBase: models.CatalogBase{IsActive: true}},
		{UnitOfMeasureCode: "ML", UnitOfMeasureName: "Mililít", CatalogBase: models.CatalogBase{IsActive: true}},
	}
	if err := db.Create(&unitOfMeasures).Error; err != nil {
		return err
	}

	serviceGroups := []*models.ServiceGroup{
		{ServiceGroupCode: "HH", ServiceGroupName: "Huyết học", CatalogBase: models.CatalogBase{IsActive: true}},
		{ServiceGroupCode: "SH", ServiceGroupName: "Sinh hóa", CatalogBase: models.CatalogBase{IsActive: true}},
		{ServiceGroupCode: "VS", ServiceGroupName: "Vi sinh", CatalogBase: models.CatalogBase{IsActive: true}},
	}
	if err := db.Create(&serviceGroups).Error; err != nil {
		return err
	}

	log.Println("🌱 Seeded catalog reference data")
	return nil
}
