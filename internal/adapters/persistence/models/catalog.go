package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Catalog (reference data) Tables
// ============================================================

// CatalogBase carries the columns shared by every catalog table.
// The active flag is a plain boolean on every entity.
type CatalogBase struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	IsActive  bool           `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *CatalogBase) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// Province tỉnh/thành phố
type Province struct {
	CatalogBase
	ProvinceCode string `gorm:"size:20;uniqueIndex;not null" json:"provinceCode"`
	ProvinceName string `gorm:"size:100;not null" json:"provinceName"`
	ShortName    string `gorm:"size:50" json:"shortName,omitempty"`
}

func (Province) TableName() string {
	return "provinces"
}

// Ward phường/xã
type Ward struct {
	CatalogBase
	WardCode   string `gorm:"size:20;uniqueIndex;not null" json:"wardCode"`
	WardName   string `gorm:"size:100;not null" json:"wardName"`
	ShortName  string `gorm:"size:50" json:"shortName,omitempty"`
	ProvinceID string `gorm:"size:36;not null;index" json:"provinceId"`

	Province *Province `gorm:"foreignKey:ProvinceID" json:"province,omitempty"`
}

func (Ward) TableName() string {
	return "wards"
}

// Branch chi nhánh bệnh viện
type Branch struct {
	CatalogBase
	BranchCode     string `gorm:"size:20;uniqueIndex;not null" json:"branchCode"`
	BranchName     string `gorm:"size:100;not null" json:"branchName"`
	ShortName      string `gorm:"size:50" json:"shortName,omitempty"`
	ProvinceID     string `gorm:"size:36;not null;index" json:"provinceId"`
	WardID         string `gorm:"size:36;not null;index" json:"wardId"`
	Address        string `gorm:"size:255;not null" json:"address"`
	PhoneNumber    string `gorm:"size:20" json:"phoneNumber,omitempty"`
	HospitalLevel  string `gorm:"size:50" json:"hospitalLevel,omitempty"`
	Representative string `gorm:"size:100" json:"representative,omitempty"`
	BhytCode       string `gorm:"size:50" json:"bhytCode,omitempty"`

	Province *Province `gorm:"foreignKey:ProvinceID" json:"province,omitempty"`
	Ward     *Ward     `gorm:"foreignKey:WardID" json:"ward,omitempty"`
}

func (Branch) TableName() string {
	return "branches"
}

// DepartmentType loại khoa/phòng
type DepartmentType struct {
	CatalogBase
	TypeCode    string `gorm:"size:20;uniqueIndex;not null" json:"typeCode"`
	TypeName    string `gorm:"size:100;not null" json:"typeName"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (DepartmentType) TableName() string {
	return "department_types"
}

// Department khoa/phòng
type Department struct {
	CatalogBase
	DepartmentCode     string  `gorm:"size:20;uniqueIndex;not null" json:"departmentCode"`
	DepartmentName     string  `gorm:"size:100;not null" json:"departmentName"`
	ShortName          string  `gorm:"size:50" json:"shortName,omitempty"`
	BranchID           string  `gorm:"size:36;not null;index" json:"branchId"`
	DepartmentTypeID   *string `gorm:"size:36;index" json:"departmentTypeId,omitempty"`
	ParentDepartmentID *string `gorm:"size:36;index" json:"parentDepartmentId,omitempty"`
	HeadOfDepartment   string  `gorm:"size:100" json:"headOfDepartment,omitempty"`
	HeadNurse          string  `gorm:"size:100" json:"headNurse,omitempty"`

	Branch           *Branch         `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	DepartmentType   *DepartmentType `gorm:"foreignKey:DepartmentTypeID" json:"departmentType,omitempty"`
	ParentDepartment *Department     `gorm:"foreignKey:ParentDepartmentID" json:"parentDepartment,omitempty"`
}

func (Department) TableName() string {
	return "departments"
}

// Room phòng thực hiện
type Room struct {
	CatalogBase
	RoomCode     string `gorm:"size:20;uniqueIndex;not null" json:"roomCode"`
	RoomName     string `gorm:"size:100;not null" json:"roomName"`
	RoomAddress  string `gorm:"size:255" json:"roomAddress,omitempty"`
	DepartmentID string `gorm:"size:36;not null;index" json:"departmentId"`
	Description  string `gorm:"type:text" json:"description,omitempty"`

	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Room) TableName() string {
	return "rooms"
}

// ServiceGroup nhóm dịch vụ
type ServiceGroup struct {
	CatalogBase
	ServiceGroupCode string `gorm:"size:20;uniqueIndex;not null" json:"serviceGroupCode"`
	ServiceGroupName string `gorm:"size:100;not null" json:"serviceGroupName"`
	ShortName        string `gorm:"size:50" json:"shortName,omitempty"`
	Mapping          string `gorm:"size:100" json:"mapping,omitempty"`
}

func (ServiceGroup) TableName() string {
	return "service_groups"
}

// UnitOfMeasure đơn vị tính
type UnitOfMeasure struct {
	CatalogBase
	UnitOfMeasureCode string `gorm:"size:20;uniqueIndex;not null" json:"unitOfMeasureCode"`
	UnitOfMeasureName string `gorm:"size:100;not null" json:"unitOfMeasureName"`
	Description       string `gorm:"type:text" json:"description,omitempty"`
	Mapping           string `gorm:"size:100" json:"mapping,omitempty"`
}

func (UnitOfMeasure) TableName() string {
	return "unit_of_measures"
}

// Service dịch vụ xét nghiệm
type Service struct {
	CatalogBase
	ServiceCode     string   `gorm:"size:20;uniqueIndex;not null" json:"serviceCode"`
	ServiceName     string   `gorm:"size:100;not null" json:"serviceName"`
	ShortName       string   `gorm:"size:50" json:"shortName,omitempty"`
	ServiceGroupID  *string  `gorm:"size:36;index" json:"serviceGroupId,omitempty"`
	UnitOfMeasureID *string  `gorm:"size:36;index" json:"unitOfMeasureId,omitempty"`
	ParentServiceID *string  `gorm:"size:36;index" json:"parentServiceId,omitempty"`
	Mapping         string   `gorm:"size:100" json:"mapping,omitempty"`
	NumOrder        int      `json:"numOrder,omitempty"`
	CurrentPrice    *float64 `gorm:"type:decimal(15,2)" json:"currentPrice,omitempty"`

	ServiceGroup  *ServiceGroup  `gorm:"foreignKey:ServiceGroupID" json:"serviceGroup,omitempty"`
	UnitOfMeasure *UnitOfMeasure `gorm:"foreignKey:UnitOfMeasureID" json:"unitOfMeasure,omitempty"`
	ParentService *Service       `gorm:"foreignKey:ParentServiceID" json:"parentService,omitempty"`
}

func (Service) TableName() string {
	return "services"
}

// SampleType loại mẫu bệnh phẩm
type SampleType struct {
	CatalogBase
	TypeCode           string `gorm:"size:20;uniqueIndex;not null" json:"typeCode"`
	TypeName           string `gorm:"size:100;not null" json:"typeName"`
	ShortName          string `gorm:"size:50" json:"shortName,omitempty"`
	CodeGenerationRule string `gorm:"size:100" json:"codeGenerationRule,omitempty"`
	Description        string `gorm:"type:text" json:"description,omitempty"`
}

func (SampleType) TableName() string {
	return "sample_types"
}

// Category danh mục chung
type Category struct {
	CatalogBase
	Code        string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates/updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Auth
		&User{},
		&RefreshToken{},
		&HisToken{},
		// Catalog
		&Province{},
		&Ward{},
		&Branch{},
		&DepartmentType{},
		&Department{},
		&Room{},
		&ServiceGroup{},
		&UnitOfMeasure{},
		&Service{},
		&SampleType{},
		&Category{},
	)
}
