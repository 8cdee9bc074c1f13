package client

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"
)

// User is the account record as served by the API
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FullName     string     `json:"fullName"`
	PhoneNumber  string     `json:"phoneNumber,omitempty"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	HisUsername  string     `json:"hisUsername,omitempty"`
	ProvinceID   *string    `json:"provinceId,omitempty"`
	WardID       *string    `json:"wardId,omitempty"`
	DepartmentID *string    `json:"departmentId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// AuthResult is the payload of a successful login or token refresh
type AuthResult struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// ListResult is the canonical list envelope
type ListResult[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// ListFilter is the shared part of every catalog listing filter. Only set
// fields are serialized into the query string.
type ListFilter struct {
	Search   string
	IsActive *bool
	Limit    int
	Offset   int
}

func (f ListFilter) query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.IsActive != nil {
		q.Set("isActive", strconv.FormatBool(*f.IsActive))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	return q
}

// catalogMeta is embedded in every catalog entity
type catalogMeta struct {
	ID        string    `json:"id"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Province tỉnh/thành phố
type Province struct {
	catalogMeta
	ProvinceCode string `json:"provinceCode"`
	ProvinceName string `json:"provinceName"`
	ShortName    string `json:"shortName,omitempty"`
}

// Ward phường/xã
type Ward struct {
	catalogMeta
	WardCode   string    `json:"wardCode"`
	WardName   string    `json:"wardName"`
	ShortName  string    `json:"shortName,omitempty"`
	ProvinceID string    `json:"provinceId"`
	Province   *Province `json:"province,omitempty"`
}

// Branch chi nhánh bệnh viện
type Branch struct {
	catalogMeta
	BranchCode     string    `json:"branchCode"`
	BranchName     string    `json:"branchName"`
	ShortName      string    `json:"shortName,omitempty"`
	ProvinceID     string    `json:"provinceId"`
	WardID         string    `json:"wardId"`
	Address        string    `json:"address"`
	PhoneNumber    string    `json:"phoneNumber,omitempty"`
	HospitalLevel  string    `json:"hospitalLevel,omitempty"`
	Representative string    `json:"representative,omitempty"`
	BhytCode       string    `json:"bhytCode,omitempty"`
	Province       *Province `json:"province,omitempty"`
	Ward           *Ward     `json:"ward,omitempty"`
}

// DepartmentType loại khoa/phòng
type DepartmentType struct {
	catalogMeta
	TypeCode    string `json:"typeCode"`
	TypeName    string `json:"typeName"`
	Description string `json:"description,omitempty"`
}

// Department khoa/phòng
type Department struct {
	catalogMeta
	DepartmentCode     string          `json:"departmentCode"`
	DepartmentName     string          `json:"departmentName"`
	ShortName          string          `json:"shortName,omitempty"`
	BranchID           string          `json:"branchId"`
	DepartmentTypeID   *string         `json:"departmentTypeId,omitempty"`
	ParentDepartmentID *string         `json:"parentDepartmentId,omitempty"`
	HeadOfDepartment   string          `json:"headOfDepartment,omitempty"`
	HeadNurse          string          `json:"headNurse,omitempty"`
	Branch             *Branch         `json:"branch,omitempty"`
	DepartmentType     *DepartmentType `json:"departmentType,omitempty"`
	ParentDepartment   *Department     `json:"parentDepartment,omitempty"`
}

// Room phòng thực hiện
type Room struct {
	catalogMeta
	RoomCode     string      `json:"roomCode"`
	RoomName     string      `json:"roomName"`
	RoomAddress  string      `json:"roomAddress,omitempty"`
	DepartmentID string      `json:"departmentId"`
	Description  string      `json:"description,omitempty"`
	Department   *Department `json:"department,omitempty"`
}

// ServiceGroup nhóm dịch vụ
type ServiceGroup struct {
	catalogMeta
	ServiceGroupCode string `json:"serviceGroupCode"`
	ServiceGroupName string `json:"serviceGroupName"`
	ShortName        string `json:"shortName,omitempty"`
	Mapping          string `json:"mapping,omitempty"`
}

// UnitOfMeasure đơn vị tính
type UnitOfMeasure struct {
	catalogMeta
	UnitOfMeasureCode string `json:"unitOfMeasureCode"`
	UnitOfMeasureName string `json:"unitOfMeasureName"`
	Description       string `json:"description,omitempty"`
	Mapping           string `json:"mapping,omitempty"`
}

// Service dịch vụ xét nghiệm
type Service struct {
	catalogMeta
	ServiceCode     string         `json:"serviceCode"`
	ServiceName     string         `json:"serviceName"`
	ShortName       string         `json:"shortName,omitempty"`
	ServiceGroupID  *string        `json:"serviceGroupId,omitempty"`
	UnitOfMeasureID *string        `json:"unitOfMeasureId,omitempty"`
	ParentServiceID *string        `json:"parentServiceId,omitempty"`
	Mapping         string         `json:"mapping,omitempty"`
	NumOrder        int            `json:"numOrder,omitempty"`
	CurrentPrice    *float64       `json:"currentPrice,omitempty"`
	ServiceGroup    *ServiceGroup  `json:"serviceGroup,omitempty"`
	UnitOfMeasure   *UnitOfMeasure `json:"unitOfMeasure,omitempty"`
	ParentService   *Service       `json:"parentService,omitempty"`
}

// SampleType loại mẫu bệnh phẩm
type SampleType struct {
	catalogMeta
	TypeCode           string `json:"typeCode"`
	TypeName           string `json:"typeName"`
	ShortName          string `json:"shortName,omitempty"`
	CodeGenerationRule string `json:"codeGenerationRule,omitempty"`
	Description        string `json:"description,omitempty"`
}

// Category danh mục chung
type Category struct {
	catalogMeta
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// HISRole is one HIS role entry
type HISRole struct {
	RoleCode string `json:"roleCode"`
	RoleName string `json:"roleName"`
}

// HisToken is the stored HIS session record
type HisToken struct {
	TokenCode          string    `json:"tokenCode"`
	RenewCode          string    `json:"renewCode,omitempty"`
	UserLoginName      string    `json:"userLoginName"`
	UserName           string    `json:"userName"`
	UserEmail          string    `json:"userEmail"`
	UserMobile         string    `json:"userMobile"`
	UserGCode          string    `json:"userGCode"`
	ApplicationCode    string    `json:"applicationCode"`
	LoginTime          time.Time `json:"loginTime"`
	ExpireTime         time.Time `json:"expireTime"`
	MinutesUntilExpire int       `json:"minutesUntilExpire"`
	Roles              []HISRole `json:"roles,omitempty"`
}

// HisTokenStatus is the polled expiry bookkeeping for an HIS session
type HisTokenStatus struct {
	IsValid            bool      `json:"isValid"`
	IsExpired          bool      `json:"isExpired"`
	IsExpiringSoon     bool      `json:"isExpiringSoon"`
	MinutesUntilExpire int       `json:"minutesUntilExpire"`
	UserLoginName      string    `json:"userLoginName"`
	UserName           string    `json:"userName"`
	LoginTime          time.Time `json:"loginTime"`
	ExpireTime         time.Time `json:"expireTime"`
}

// HisDirectLoginResult pairs the local session with the HIS session
type HisDirectLoginResult struct {
	Auth     *AuthResult `json:"auth"`
	HisToken *HisToken   `json:"hisToken"`
}

// HISAPIRequest is a proxied call to an arbitrary HIS endpoint
type HISAPIRequest struct {
	Endpoint string                 `json:"endpoint"`
	Method   string                 `json:"method,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// HISAPIResult carries the raw HIS response of a proxied call
type HISAPIResult struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}
