package handlers

import (
	"fmt"
	"strings"

	"labis-admin/internal/adapters/persistence/models"
	"labis-admin/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// CatalogHandlers bundles one handler per reference-data resource
type CatalogHandlers struct {
	Provinces       *CatalogHandler[models.Province, ProvinceRequest]
	Wards           *CatalogHandler[models.Ward, WardRequest]
	Branches        *CatalogHandler[models.Branch, BranchRequest]
	DepartmentTypes *CatalogHandler[models.DepartmentType, DepartmentTypeRequest]
	Departments     *CatalogHandler[models.Department, DepartmentRequest]
	Rooms           *CatalogHandler[models.Room, RoomRequest]
	ServiceGroups   *CatalogHandler[models.ServiceGroup, ServiceGroupRequest]
	UnitOfMeasures  *CatalogHandler[models.UnitOfMeasure, UnitOfMeasureRequest]
	Services        *CatalogHandler[models.Service, ServiceRequest]
	SampleTypes     *CatalogHandler[models.SampleType, SampleTypeRequest]
	Categories      *CatalogHandler[models.Category, CategoryRequest]
}

// NewCatalogHandlers wires every catalog resource against the database
func NewCatalogHandlers(db *gorm.DB) *CatalogHandlers {
	return &CatalogHandlers{
		Provinces:       NewCatalogHandler(provinceDescriptor(db)),
		Wards:           NewCatalogHandler(wardDescriptor(db)),
		Branches:        NewCatalogHandler(branchDescriptor(db)),
		DepartmentTypes: NewCatalogHandler(departmentTypeDescriptor(db)),
		Departments:     NewCatalogHandler(departmentDescriptor(db)),
		Rooms:           NewCatalogHandler(roomDescriptor(db)),
		ServiceGroups:   NewCatalogHandler(serviceGroupDescriptor(db)),
		UnitOfMeasures:  NewCatalogHandler(unitOfMeasureDescriptor(db)),
		Services:        NewCatalogHandler(serviceDescriptor(db)),
		SampleTypes:     NewCatalogHandler(sampleTypeDescriptor(db)),
		Categories:      NewCatalogHandler(categoryDescriptor(db)),
	}
}

// required fails when a create request leaves a mandatory field empty.
// Updates are partial, so blanks pass through untouched.
func required(partial bool, label, value string) error {
	if !partial && strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", label)
	}
	return nil
}

func maxLen(label, value string, max int) error {
	if len(value) > max {
		return fmt.Errorf("%s must be at most %d characters", label, max)
	}
	return nil
}

func setStr(dst *string, src string, partial bool) {
	if !partial || src != "" {
		*dst = src
	}
}

func setStrPtr(dst **string, src *string, partial bool) {
	if !partial || src != nil {
		*dst = src
	}
}

func setActive(m *models.CatalogBase, src *bool, partial bool) {
	if src != nil {
		m.IsActive = *src
	} else if !partial {
		m.IsActive = true
	}
}

// ============================================================
// Province
// ============================================================

type ProvinceRequest struct {
	ProvinceCode string `json:"provinceCode"`
	ProvinceName string `json:"provinceName"`
	ShortName    string `json:"shortName"`
	IsActive     *bool  `json:"isActive"`
}

func provinceDescriptor(db *gorm.DB) CatalogDescriptor[models.Province, ProvinceRequest] {
	return CatalogDescriptor[models.Province, ProvinceRequest]{
		Name:   "Province",
		Plural: "Provinces",
		Repo: repositories.NewCatalogRepository[models.Province](
			db, []string{"province_code", "province_name", "short_name"}, "province_name ASC"),
		Validate: func(req *ProvinceRequest, partial bool) error {
			if err := required(partial, "provinceCode", req.ProvinceCode); err != nil {
				return err
			}
			if err := required(partial, "provinceName", req.ProvinceName); err != nil {
				return err
			}
			if err := maxLen("provinceCode", req.ProvinceCode, 20); err != nil {
				return err
			}
			return maxLen("provinceName", req.ProvinceName, 100)
		},
		Apply: func(m *models.Province, req *ProvinceRequest, partial bool) {
			setStr(&m.ProvinceCode, req.ProvinceCode, partial)
			setStr(&m.ProvinceName, req.ProvinceName, partial)
			setStr(&m.ShortName, req.ShortName, partial)
			setActive(&m.CatalogBase, req.IsActive, partial)
		},
		CodeOf:     func(req *ProvinceRequest) string { return req.ProvinceCode },
		CodeColumn: "province_code",
	}
}

// ============================================================
// Ward
// ============================================================

type WardRequest struct {
	WardCode   string `json:"wardCode"`
	WardName   string `json:"wardName"`
	ShortName  string `json:"shortName"`
	ProvinceID string `json:"provinceId"`
	IsActive   *bool  `json:"isActive"`
}

func wardDescriptor(db *gorm.DB) CatalogDescriptor[models.Ward, WardRequest] {
	return CatalogDescriptor[models.Ward, WardRequest]{
		Name:   "Ward",
		Plural: "Wards",
		Repo: repositories.NewCatalogRepository[models.Ward](
			db, []string{"ward_code", "ward_name", "short_name"}, "ward_name ASC", "Province"),
		RefParams: map[string]string{"provinceId": "province_id"},
		Validate: func(req *WardRequest, partial bool) error {
			if err := required(partial, "wardCode", req.WardCode); err != nil {
				return err
			}
			if err := required(partial, "wardName", req.WardName); err != nil {
				return err
			}
			if err := required(partial, "provinceId", req.ProvinceID); err != nil {
				return err
			}
			return maxLen("wardCode", req.WardCode, 20)
		},
		Apply: func(m *models.Ward, req *WardRequest, partial bool) {
			setStr(&m.WardCode, req.WardCode, partial)
			setStr(&m.WardName, req.WardName, partial)
			setStr(&m.ShortName, req.ShortName, partial)
			setStr(&m.ProvinceID, req.ProvinceID, partial)
			setActive(&m.CatalogBase, req.IsActive, partial)
		},
		CodeOf:     func(req *WardRequest) string { return req.WardCode },
		CodeColumn: "ward_code",
	}
}

// ============================================================
// Branch
// ============================================================

type BranchRequest struct {
	BranchCode     string `json:"branchCode"`
	BranchName     string `json:"branchName"`
	ShortName      string `json:"shortName"`
	ProvinceID     string `json:"provinceId"`
	WardID         string `json:"wardId"`
	Address        string `json:"address"`
	PhoneNumber    string `json:"phoneNumber"`
	HospitalLevel  string `json:"hospitalLevel"`
	Representative string `json:"representative"`
	BhytCode       string `json:"bhytCode"`
	IsActive       *bool  `json:"isActive"`
}

func branchDescriptor(db *gorm.DB) CatalogDescriptor[models.Branch, BranchRequest] {
	return CatalogDescriptor[models.Branch, BranchRequest]{
		Name:   "Branch",
		Plural: "Branches",
		Repo: repositories.NewCatalogRepository[models.Branch](
			db, []string{"branch_code", "branch_name", "short_name", "address"}, "branch_name ASC", "Province", "Ward"),
		RefParams: map[string]string{
			"provinceId": "province_id",
			"wardId":     "ward_id",
		},
		Validate: func(req *BranchRequest, partial bool) error {
			for _, f := range []struct{ label, value string }{
				{"branchCode", req.BranchCode},
				{"branchName", req.BranchName},
				{"provinceId", req.ProvinceID},
				{"wardId", req.WardID},
				{"address", req.Address},
			} {
				if err := required(partial, f.label, f.value); err != nil {
					return err
				}
			}
			return maxLen("branchCode", req.BranchCode, 20)
		},
		Apply: func(m *models.Branch, req *BranchRequest, partial bool) {
			setStr(&m.BranchCode, req.BranchCode, partial)
			setStr(&m.BranchName, req.BranchName, partial)
			setStr(&m.ShortName, req.ShortName, partial)
			setStr(&m.ProvinceID, req.ProvinceID, partial)
			setStr(&m.WardID, req.WardID, partial)
			setStr(&m.Address, req.Address, partial)
			setStr(&m.PhoneNumber, req.PhoneNumber, partial)
			setStr(&m.HospitalLevel, req.HospitalLevel, partial)
			setStr(&m.Representative, req.Representative, partial)
			setStr(&m.BhytCode, req.BhytCode, partial)
			setActive(&m.CatalogBase, req.IsActive, partial)
		},
		CodeOf:     func(req *BranchRequest) string { return req.BranchCode },
		CodeColumn: "branch_code",
	}
}

// ============================================================
// DepartmentType
// ============================================================

type DepartmentTypeRequest struct {
	TypeCode    string `json:"typeCode"`
	TypeName    string `json:"typeName"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

func departmentTypeDescriptor(db *gorm.DB) CatalogDescriptor[models.DepartmentType, DepartmentTypeRequest] {
	return CatalogDescriptor[models.DepartmentType, DepartmentTypeRequest]{
		Name:   "Department type",
		Plural: "Department types",
		Repo: repositories.NewCatalogRepository[models.DepartmentType](
			db, []string{"type_code", "type_name"}, "type_name ASC"),
		Validate: func(req *DepartmentTypeRequest, partial bool) error {
			if err := required(partial, "typeCode", req.TypeCode); err != nil {
				return err
			}
			if err := required(partial, "typeName", req.TypeName); err != nil {
				return err
			}
			return maxLen("typeCode", req.TypeCode, 20)
		},
		Apply: func(m *models.DepartmentType, req *DepartmentTypeRequest, partial bool) {
			setStr(&m.TypeCode, req.TypeCode, partial)
			setStr(&m.TypeName, req.TypeName, partial)
			setStr(&m.Description, req.Description, partial)
			setActive(&m.CatalogBase, req.IsActive, partial)
		},
		CodeOf:     func(req *DepartmentTypeRequest) string { return req.TypeCode },
		CodeColumn: "type_code",
	}
}

// ============================================================
// Department
// ============================================================

type DepartmentRequest struct {
	DepartmentCode     string  `json:"departmentCode"`
	DepartmentName     string  `json:"departmentName"`
	ShortName          string  `json:"shortName"`
	BranchID           string  `json:"branchId"`
	DepartmentTypeID   *string `json:"departmentTypeId"`
	ParentDepartmentID *string `json:"parentDepartmentId"`
	HeadOfDepartment   string  `json:"headOfDepartment"`
	HeadNurse          string  `json:"headNurse"`
	IsActive           *bool   `json:"isActive"`
}

func departmentDescriptor(db *gorm.DB) CatalogDescriptor[models.Department, DepartmentRequest] {
	return CatalogDescriptor[models.Department, DepartmentRequest]{
		Name:   "Department",
		Plural: "Departments",
		Repo: repositories.NewCatalogRepository[models.Department](
			db, []string{"department_code", "department_name", "short_name"}, "department_name ASC",
			"Branch", "DepartmentType", "ParentDepartment"),
		RefParams: map[string]string{
			"branchId":         "branch_id",
			"departmentTypeId": "department_type_id",
		},
		Validate: func(req *DepartmentRequest, partial bool) error {
			if err := required(partial, "departmentCode", req.DepartmentCode); err != nil {
				return err
			}
			if err := required(partial, "departmentName", req.DepartmentName); err != nil {
				return err
			}
			if err := required(partial, "branchId", req.BranchID); err != nil {
				return err
			}
			return maxLen("departmentCode", req.DepartmentCode, 20)
		},
		Apply: func(m *models.Department, req *DepartmentRequest, partial bool) {
			setStr(&m.DepartmentCode, req.DepartmentCode, partial)
			setStr(&m.DepartmentName, req.DepartmentName, partial)
			setStr(&m.ShortName, req.ShortName, partial)
			setStr(&m.BranchID, req.BranchID, partial)
			setStrPtr(&m.DepartmentTypeID, req.DepartmentTypeID, partial)
			setStrPtr(&m.ParentDepartmentID, req.ParentDepartmentID, partial)
			setStr(&m.HeadOfDepartment, req.HeadOfDepartment, partial)
			setStr(&m.HeadNurse, req.HeadNurse, partial)
			setActive(&m.CatalogBase, req.IsActive, partial)
		},
		CodeOf:     func(req *DepartmentRequest) string { return req.DepartmentCode },
		CodeColumn: "department_code",
	}
}

// ============================================================
// Room
// ============================================================

type RoomRequest struct {
	RoomCode     string `json:"roomCode"`
	RoomName     string `json:"roomName"`
	RoomAddress  string `json:"roomAddress"`
	DepartmentID string `json:"departmentId"`
	Description  string `json:"description"`
	IsActive     *bool  `json:"isActive"`
}

func roomDescriptor(db *gorm.DB) CatalogDescriptor[models.Room, RoomRequest] {
	return CatalogDescriptor[models.Room, RoomRequest]{
		Name:   "Room",
		Plural: "Rooms",
		Repo: repositories.NewCatalogRepository[models.Room](
			db, []string{"room_code", "room_name"}, "room_name ASC", "Department"),
		RefParams: map[string]string{"departmentId": "department_id"},
		Validate: func(req *RoomRequest, partial bool) error {
			if err := required(partial, "roomCode", req.RoomCode); err != nil {
				return err
			}
			if err := required(partial, "roomName", req.RoomName); err != nil {
				return err
			}
			if err := required(partial, "departmentId", req.DepartmentID); err != nil {
				return err
			}
			return maxLen("roomCode", req.RoomCode, 20)
		},
		Apply: func(m *models.Room, req *RoomRequest, partial bool) {
			setStr(&m.RoomCode, req.RoomCode, partial)
			setStr(&m.RoomName, req.RoomName, partial)
			setStr(&m.RoomAddress, req.RoomAddress, partial)
			setStr(&m.DepartmentID, req.DepartmentID, partial)
			setStr(&m.Description, req.Description, partial)
			setActive(&m.CatalogBase, req.IsActive, partial)
		},
		CodeOf:     func(req *RoomRequest) string { return req.RoomCode },
		CodeColumn: "room_code",
	}
}

// ============================================================
// ServiceGroup
// ============================================================

type ServiceGroupRequest struct {
	ServiceGroupCode string `json:"serviceGroupCode"`
	ServiceGroupName string `json:"serviceGroupName"`
	ShortName        string `json:"shortName"`
	Mapping          string `json:"mapping"`
	IsActive         *bool  `json:"isActive"`
}

func serviceGroupDescriptor(db *gorm.DB) CatalogDescriptor[models.ServiceGroup, ServiceGroupRequest] {
	return CatalogDescriptor[models.ServiceGroup, ServiceGroupRequest]{
		Name:   "Service group",
		Plural: "Service groups",
		Repo: repositories.NewCatalogRepository[models.ServiceGroup](
			db, []string{"service_group_code", "service_group_name", "short_name"}, "service_group_name ASC"),
		Validate: func(req *ServiceGroupRequest, partial bool) error {
			if err := required(partial, "serviceGroupCode", req.ServiceGroupCode); err != nil {
				return err
			}
			if err := required(partial, "serviceGroupName", req.ServiceGroupName); err != nil {
				return err
			}
			return maxLen("serviceGroupCode", req.ServiceGroupCode, 20)
		},
		Apply: func(m *models.ServiceGroup, req *ServiceGroupRequest, partial bool) {
			setStr(&m.ServiceGroupCode, req.ServiceGroupCode, partial)
			setStr(&m.ServiceGroupName, req.ServiceGroupName, partial)
			setStr(&m.ShortName, req.ShortName, partial)
			setStr(&m.Mapping, req.Mapping, partial)
			setActive(&m.CatalogBase, req.IsActive, partial)
		},
		CodeOf:     func(req *ServiceGroupRequest) string { return req.ServiceGroupCode },
		CodeColumn: "service_group_code",
	}
}

// ============================================================
// UnitOfMeasure
// ============================================================

type UnitOfMeasureRequest struct {
	UnitOfMeasureCode string `json:"unitOfMeasureCode"`
	UnitOfMeasureName string `json:"unitOfMeasureName"`
	Description       string `json:"description"`
	Mapping           string `json:"mapping"`
	IsActive          *bool  `json:"isActive"`
}

func unitOfMeasureDescriptor(db *gorm.DB) CatalogDescriptor[models.UnitOfMeasure, UnitOfMeasureRequest] {
	return CatalogDescriptor[models.UnitOfMeasure, UnitOfMeasureRequest]{
		Name:   "Unit of measure",
		Plural: "Units of measure",
		Repo: repositories.NewCatalogRepository[models.UnitOfMeasure](
			db, []string{"unit_of_measure_code", "unit_of_measure_name"}, "unit_of_measure_name ASC"),
		Validate: func(req *UnitOfMeasureRequest, partial bool) error {
			if err := required(partial, "unitOfMeasureCode", req.UnitOfMeasureCode); err != nil {
				return err
			}
			if err := required(partial, "unitOfMeasureName", req.UnitOfMeasureName); err != nil {
				return err
			}
			return maxLen("unitOfMeasureCode", req.UnitOfMeasureCode, 20)
		},
		Apply: func(m *models.UnitOfMeasure, req *UnitOfMeasureRequest, partial bool) {
			setStr(&m.UnitOfMeasureCode, req.UnitOfMeasureCode, partial)
			setStr(&m.UnitOfMeasureName, req.UnitOfMeasureName, partial)
			setStr(&m.Description, req.Description, partial)
			setStr(&m.Mapping, req.Mapping, partial)
			setActive(&m.CatalogBase, req.IsActive, partial)
		},
		CodeOf:     func(req *UnitOfMeasureRequest) string { return req.UnitOfMeasureCode },
		CodeColumn: "unit_of_measure_code",
	}
}

// ============================================================
// Service
// ============================================================

type ServiceRequest struct {
	ServiceCode     string   `json:"serviceCode"`
	ServiceName     string   `json:"serviceName"`
	ShortName       string   `json:"shortName"`
	ServiceGroupID  *string  `json:"serviceGroupId"`
	UnitOfMeasureID *string  `json:"unitOfMeasureId"`
	ParentServiceID *string  `json:"parentServiceId"`
	Mapping         string   `json:"mapping"`
	NumOrder        *int     `json:"numOrder"`
	CurrentPrice    *float64 `json:"currentPrice"`
	IsActive        *bool    `json:"isActive"`
}

func serviceDescriptor(db *gorm.DB) CatalogDescriptor[models.Service, ServiceRequest] {
	return CatalogDescriptor[models.Service, ServiceRequest]{
		Name:   "Service",
		Plural: "Services",
		Repo: repositories.NewCatalogRepository[models.Service](
			db, []string{"service_code", "service_name", "short_name"}, "num_order ASC, service_name ASC",
			"ServiceGroup", "UnitOfMeasure", "ParentService"),
		RefParams: map[string]string{
			"serviceGroupId":  "service_group_id",
			"unitOfMeasureId": "unit_of_measure_id",
		},
		Validate: func(req *ServiceRequest, partial bool) error {
			if err := required(partial, "serviceCode", req.ServiceCode); err != nil {
				return err
			}
			if err := required(partial, "serviceName", req.ServiceName); err != nil {
				return err
			}
			if err := maxLen("serviceCode", req.ServiceCode, 20); err != nil {
				return err
			}
			if req.CurrentPrice != nil && *req.CurrentPrice < 0 {
				return fmt.Errorf("currentPrice must not be negative")
			}
			if req.NumOrder != nil && *req.NumOrder < 0 {
				return fmt.Errorf("numOrder must not be negative")
			}
			return nil
		},
		Apply: func(m *models.Service, req *ServiceRequest, partial bool) {
			setStr(&m.ServiceCode, req.ServiceCode, partial)
			setStr(&m.ServiceName, req.ServiceName, partial)
			setStr(&m.ShortName, req.ShortName, partial)
			setStrPtr(&m.ServiceGroupID, req.ServiceGroupID, partial)
			setStrPtr(&m.UnitOfMeasureID, req.UnitOfMeasureID, partial)
			setStrPtr(&m.ParentServiceID, req.ParentServiceID, partial)
			setStr(&m.Mapping, req.Mapping, partial)
			if req.NumOrder != nil {
				m.NumOrder = *req.NumOrder
			}
			if !partial || req.CurrentPrice != nil {
				m.CurrentPrice = req.CurrentPrice
			}
			setActive(&m.CatalogBase, req.IsActive, partial)
		},
		CodeOf:     func(req *ServiceRequest) string { return req.ServiceCode },
		CodeColumn: "service_code",
	}
}

// ============================================================
// SampleType
// ============================================================

type SampleTypeRequest struct {
	TypeCode           string `json:"typeCode"`
	TypeName           string `json:"typeName"`
	ShortName          string `json:"shortName"`
	CodeGenerationRule string `json:"codeGenerationRule"`
	Description        string `json:"description"`
	IsActive           *bool  `json:"isActive"`
}

func sampleTypeDescriptor(db *gorm.DB) CatalogDescriptor[models.SampleType, SampleTypeRequest] {
	return CatalogDescriptor[models.SampleType, SampleTypeRequest]{
		Name:   "Sample type",
		Plural: "Sample types",
		Repo: repositories.NewCatalogRepository[models.SampleType](
			db, []string{"type_code", "type_name", "short_name"}, "type_name ASC"),
		Validate: func(req *SampleTypeRequest, partial bool) error {
			if err := required(partial, "typeCode", req.TypeCode); err != nil {
				return err
			}
			if err := required(partial, "typeName", req.TypeName); err != nil {
				return err
			}
			return maxLen("typeCode", req.TypeCode, 20)
		},
		Apply: func(m *models.SampleType, req *SampleTypeRequest, partial bool) {
			setStr(&m.TypeCode, req.TypeCode, partial)
			setStr(&m.TypeName, req.TypeName, partial)
			setStr(&m.ShortName, req.ShortName, partial)
			setStr(&m.CodeGenerationRule, req.CodeGenerationRule, partial)
			setStr(&m.Description, req.Description, partial)
			setActive(&m.CatalogBase, req.IsActive, partial)
		},
		CodeOf:     func(req *SampleTypeRequest) string { return req.TypeCode },
		CodeColumn: "type_code",
	}
}

// ============================================================
// Category
// ============================================================

type CategoryRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

func categoryDescriptor(db *gorm.DB) CatalogDescriptor[models.Category, CategoryRequest] {
	return CatalogDescriptor[models.Category, CategoryRequest]{
		Name:   "Category",
		Plural: "Categories",
		Repo: repositories.NewCatalogRepository[models.Category](
			db, []string{"code", "name"}, "name ASC"),
		Validate: func(req *CategoryRequest, partial bool) error {
			if err := required(partial, "code", req.Code); err != nil {
				return err
			}
			if err := required(partial, "name", req.Name); err != nil {
				return err
			}
			return maxLen("code", req.Code, 20)
		},
		Apply: func(m *models.Category, req *CategoryRequest, partial bool) {
			setStr(&m.Code, req.Code, partial)
			setStr(&m.Name, req.Name, partial)
			setStr(&m.Description, req.Description, partial)
			setActive(&m.CatalogBase, req.IsActive, partial)
		},
		CodeOf:     func(req *CategoryRequest) string { return req.Code },
		CodeColumn: "code",
	}
}
