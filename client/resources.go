package client

import (
	"context"
	"net/http"
	"net/url"
)

// ============================================================
// Auth operations
// ============================================================

// Login authenticates and installs the returned token pair on the client
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{
		"usernameOrEmail": usernameOrEmail,
		"password":        password,
	}, &result)
	if err != nil {
		return nil, err
	}

	c.SetTokens(result.AccessToken, result.RefreshToken)
	return &result, nil
}

// RegisterInput is the registration request
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Register creates an account and installs its token pair
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, input, &result); err != nil {
		return nil, err
	}

	c.SetTokens(result.AccessToken, result.RefreshToken)
	return &result, nil
}

// Logout revokes the session server-side and clears the tokens. The local
// clear happens even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.RLock()
	refreshToken := c.refreshToken
	c.mu.RUnlock()

	var err error
	if refreshToken != "" {
		err = c.do(ctx, http.MethodPost, "/auth/logout", nil,
			map[string]string{"refreshToken": refreshToken}, nil)
	}

	c.ClearTokens()
	return err
}

// Profile fetches the authenticated user
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ============================================================
// Generic catalog plumbing
// ============================================================

func listResource[T any](ctx context.Context, c *Client, path string, query url.Values) (*ListResult[T], error) {
	var result ListResult[T]
	if err := c.get(ctx, path, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func getResource[T any](ctx context.Context, c *Client, path string) (*T, error) {
	var item T
	if err := c.get(ctx, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func createResource[T any](ctx context.Context, c *Client, path string, input interface{}) (*T, error) {
	var item T
	if err := c.do(ctx, http.MethodPost, path, nil, input, &item); err != nil {
		return nil, err
	}
	c.invalidate(path)
	return &item, nil
}

func updateResource[T any](ctx context.Context, c *Client, base, id string, input interface{}) (*T, error) {
	var item T
	if err := c.do(ctx, http.MethodPut, base+"/"+id, nil, input, &item); err != nil {
		return nil, err
	}
	c.invalidate(base)
	return &item, nil
}

func deleteResource(ctx context.Context, c *Client, base, id string) error {
	if err := c.do(ctx, http.MethodDelete, base+"/"+id, nil, nil, nil); err != nil {
		return err
	}
	c.invalidate(base)
	return nil
}

// ============================================================
// Provinces
// ============================================================

// ProvinceInput creates or updates a province; nil/empty fields are left
// untouched on update
type ProvinceInput struct {
	ProvinceCode string `json:"provinceCode,omitempty"`
	ProvinceName string `json:"provinceName,omitempty"`
	ShortName    string `json:"shortName,omitempty"`
	IsActive     *bool  `json:"isActive,omitempty"`
}

func (c *Client) ListProvinces(ctx context.Context, f ListFilter) (*ListResult[Province], error) {
	return listResource[Province](ctx, c, "/provinces", f.query())
}

func (c *Client) GetProvince(ctx context.Context, id string) (*Province, error) {
	return getResource[Province](ctx, c, "/provinces/"+id)
}

func (c *Client) CreateProvince(ctx context.Context, input ProvinceInput) (*Province, error) {
	return createResource[Province](ctx, c, "/provinces", input)
}

func (c *Client) UpdateProvince(ctx context.Context, id string, input ProvinceInput) (*Province, error) {
	return updateResource[Province](ctx, c, "/provinces", id, input)
}

func (c *Client) DeleteProvince(ctx context.Context, id string) error {
	return deleteResource(ctx, c, "/provinces", id)
}

// ListProvinceBranches lists the branches located in a province
func (c *Client) ListProvinceBranches(ctx context.Context, provinceID string, f ListFilter) (*ListResult[Branch], error) {
	return listResource[Branch](ctx, c, "/provinces/"+provinceID+"/branches", f.query())
}

// ============================================================
// Wards
// ============================================================

type WardFilter struct {
	ListFilter
	ProvinceID string
}

func (f WardFilter) query() url.Values {
	q := f.ListFilter.query()
	if f.ProvinceID != "" {
		q.Set("provinceId", f.ProvinceID)
	}
	return q
}

type WardInput struct {
	WardCode   string `json:"wardCode,omitempty"`
	WardName   string `json:"wardName,omitempty"`
	ShortName  string `json:"shortName,omitempty"`
	ProvinceID string `json:"provinceId,omitempty"`
	IsActive   *bool  `json:"isActive,omitempty"`
}

func (c *Client) ListWards(ctx context.Context, f WardFilter) (*ListResult[Ward], error) {
	return listResource[Ward](ctx, c, "/wards", f.query())
}

// ListWardsByProvince lists the wards of one province
func (c *Client) ListWardsByProvince(ctx context.Context, provinceID string, f ListFilter) (*ListResult[Ward], error) {
	return listResource[Ward](ctx, c, "/wards/province/"+provinceID, f.query())
}

func (c *Client) GetWard(ctx context.Context, id string) (*Ward, error) {
	return getResource[Ward](ctx, c, "/wards/"+id)
}

func (c *Client) CreateWard(ctx context.Context, input WardInput) (*Ward, error) {
	return createResource[Ward](ctx, c, "/wards", input)
}

func (c *Client) UpdateWard(ctx context.Context, id string, input WardInput) (*Ward, error) {
	return updateResource[Ward](ctx, c, "/wards", id, input)
}

func (c *Client) DeleteWard(ctx context.Context, id string) error {
	return deleteResource(ctx, c, "/wards", id)
}

// ============================================================
// Branches
// ============================================================

type BranchFilter struct {
	ListFilter
	ProvinceID string
	WardID     string
}

func (f BranchFilter) query() url.Values {
	q := f.ListFilter.query()
	if f.ProvinceID != "" {
		q.Set("provinceId", f.ProvinceID)
	}
	if f.WardID != "" {
		q.Set("wardId", f.WardID)
	}
	return q
}

type BranchInput struct {
	BranchCode     string `json:"branchCode,omitempty"`
	BranchName     string `json:"branchName,omitempty"`
	ShortName      string `json:"shortName,omitempty"`
	ProvinceID     string `json:"provinceId,omitempty"`
	WardID         string `json:"wardId,omitempty"`
	Address        string `json:"address,omitempty"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	HospitalLevel  string `json:"hospitalLevel,omitempty"`
	Representative string `json:"representative,omitempty"`
	BhytCode       string `json:"bhytCode,omitempty"`
	IsActive       *bool  `json:"isActive,omitempty"`
}

func (c *Client) ListBranches(ctx context.Context, f BranchFilter) (*ListResult[Branch], error) {
	return listResource[Branch](ctx, c, "/branches", f.query())
}

func (c *Client) GetBranch(ctx context.Context, id string) (*Branch, error) {
	return getResource[Branch](ctx, c, "/branches/"+id)
}

func (c *Client) CreateBranch(ctx context.Context, input BranchInput) (*Branch, error) {
	return createResource[Branch](ctx, c, "/branches", input)
}

func (c *Client) UpdateBranch(ctx context.Context, id string, input BranchInput) (*Branch, error) {
	return updateResource[Branch](ctx, c, "/branches", id, input)
}

func (c *Client) DeleteBranch(ctx context.Context, id string) error {
	return deleteResource(ctx, c, "/branches", id)
}

// ListBranchDepartments lists the departments of one branch
func (c *Client) ListBranchDepartments(ctx context.Context, branchID string, f ListFilter) (*ListResult[Department], error) {
	return listResource[Department](ctx, c, "/branches/"+branchID+"/departments", f.query())
}

// ============================================================
// Department types
// ============================================================

type DepartmentTypeInput struct {
	TypeCode    string `json:"typeCode,omitempty"`
	TypeName    string `json:"typeName,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

func (c *Client) ListDepartmentTypes(ctx context.Context, f ListFilter) (*ListResult[DepartmentType], error) {
	return listResource[DepartmentType](ctx, c, "/department-types", f.query())
}

func (c *Client) GetDepartmentType(ctx context.Context, id string) (*DepartmentType, error) {
	return getResource[DepartmentType](ctx, c, "/department-types/"+id)
}

func (c *Client) CreateDepartmentType(ctx context.Context, input DepartmentTypeInput) (*DepartmentType, error) {
	return createResource[DepartmentType](ctx, c, "/department-types", input)
}

func (c *Client) UpdateDepartmentType(ctx context.Context, id string, input DepartmentTypeInput) (*DepartmentType, error) {
	return updateResource[DepartmentType](ctx, c, "/department-types", id, input)
}

func (c *Client) DeleteDepartmentType(ctx context.Context, id string) error {
	return deleteResource(ctx, c, "/department-types", id)
}

// ============================================================
// Departments
// ============================================================

type DepartmentFilter struct {
	ListFilter
	BranchID         string
	DepartmentTypeID string
}

func (f DepartmentFilter) query() url.Values {
	q := f.ListFilter.query()
	if f.BranchID != "" {
		q.Set("branchId", f.BranchID)
	}
	if f.DepartmentTypeID != "" {
		q.Set("departmentTypeId", f.DepartmentTypeID)
	}
	return q
}

type DepartmentInput struct {
	DepartmentCode     string  `json:"departmentCode,omitempty"`
	DepartmentName     string  `json:"departmentName,omitempty"`
	ShortName          string  `json:"shortName,omitempty"`
	BranchID           string  `json:"branchId,omitempty"`
	DepartmentTypeID   *string `json:"departmentTypeId,omitempty"`
	ParentDepartmentID *string `json:"parentDepartmentId,omitempty"`
	HeadOfDepartment   string  `json:"headOfDepartment,omitempty"`
	HeadNurse          string  `json:"headNurse,omitempty"`
	IsActive           *bool   `json:"isActive,omitempty"`
}

func (c *Client) ListDepartments(ctx context.Context, f DepartmentFilter) (*ListResult[Department], error) {
	return listResource[Department](ctx, c, "/departments", f.query())
}

func (c *Client) GetDepartment(ctx context.Context, id string) (*Department, error) {
	return getResource[Department](ctx, c, "/departments/"+id)
}

func (c *Client) CreateDepartment(ctx context.Context, input DepartmentInput) (*Department, error) {
	return createResource[Department](ctx, c, "/departments", input)
}

func (c *Client) UpdateDepartment(ctx context.Context, id string, input DepartmentInput) (*Department, error) {
	return updateResource[Department](ctx, c, "/departments", id, input)
}

func (c *Client) DeleteDepartment(ctx context.Context, id string) error {
	return deleteResource(ctx, c, "/departments", id)
}

// ListDepartmentRooms lists the rooms of one department
func (c *Client) ListDepartmentRooms(ctx context.Context, departmentID string, f ListFilter) (*ListResult[Room], error) {
	return listResource[Room](ctx, c, "/departments/"+departmentID+"/rooms", f.query())
}

// ============================================================
// Rooms
// ============================================================

type RoomFilter struct {
	ListFilter
	DepartmentID string
}

func (f RoomFilter) query() url.Values {
	q := f.ListFilter.query()
	if f.DepartmentID != "" {
		q.Set("departmentId", f.DepartmentID)
	}
	return q
}

type RoomInput struct {
	RoomCode     string `json:"roomCode,omitempty"`
	RoomName     string `json:"roomName,omitempty"`
	RoomAddress  string `json:"roomAddress,omitempty"`
	DepartmentID string `json:"departmentId,omitempty"`
	Description  string `json:"description,omitempty"`
	IsActive     *bool  `json:"isActive,omitempty"`
}

func (c *Client) ListRooms(ctx context.Context, f RoomFilter) (*ListResult[Room], error) {
	return listResource[Room](ctx, c, "/rooms", f.query())
}

func (c *Client) GetRoom(ctx context.Context, id string) (*Room, error) {
	return getResource[Room](ctx, c, "/rooms/"+id)
}

func (c *Client) CreateRoom(ctx context.Context, input RoomInput) (*Room, error) {
	return createResource[Room](ctx, c, "/rooms", input)
}

func (c *Client) UpdateRoom(ctx context.Context, id string, input RoomInput) (*Room, error) {
	return updateResource[Room](ctx, c, "/rooms", id, input)
}

func (c *Client) DeleteRoom(ctx context.Context, id string) error {
	return deleteResource(ctx, c, "/rooms", id)
}

// ============================================================
// Service groups
// ============================================================

type ServiceGroupInput struct {
	ServiceGroupCode string `json:"serviceGroupCode,omitempty"`
	ServiceGroupName string `json:"serviceGroupName,omitempty"`
	ShortName        string `json:"shortName,omitempty"`
	Mapping          string `json:"mapping,omitempty"`
	IsActive         *bool  `json:"isActive,omitempty"`
}

func (c *Client) ListServiceGroups(ctx context.Context, f ListFilter) (*ListResult[ServiceGroup], error) {
	return listResource[ServiceGroup](ctx, c, "/service-groups", f.query())
}

func (c *Client) GetServiceGroup(ctx context.Context, id string) (*ServiceGroup, error) {
	return getResource[ServiceGroup](ctx, c, "/service-groups/"+id)
}

func (c *Client) CreateServiceGroup(ctx context.Context, input ServiceGroupInput) (*ServiceGroup, error) {
	return createResource[ServiceGroup](ctx, c, "/service-groups", input)
}

func (c *Client) UpdateServiceGroup(ctx context.Context, id string, input ServiceGroupInput) (*ServiceGroup, error) {
	return updateResource[ServiceGroup](ctx, c, "/service-groups", id, input)
}

func (c *Client) DeleteServiceGroup(ctx context.Context, id string) error {
	return deleteResource(ctx, c, "/service-groups", id)
}

// ListServiceGroupServices lists the services of one group
func (c *Client) ListServiceGroupServices(ctx context.Context, groupID string, f ListFilter) (*ListResult[Service], error) {
	return listResource[Service](ctx, c, "/service-groups/"+groupID+"/services", f.query())
}

// ============================================================
// Units of measure
// ============================================================

type UnitOfMeasureInput struct {
	UnitOfMeasureCode string `json:"unitOfMeasureCode,omitempty"`
	UnitOfMeasureName string `json:"unitOfMeasureName,omitempty"`
	Description       string `json:"description,omitempty"`
	Mapping           string `json:"mapping,omitempty"`
	IsActive          *bool  `json:"isActive,omitempty"`
}

func (c *Client) ListUnitOfMeasures(ctx context.Context, f ListFilter) (*ListResult[UnitOfMeasure], error) {
	return listResource[UnitOfMeasure](ctx, c, "/unit-of-measures", f.query())
}

func (c *Client) GetUnitOfMeasure(ctx context.Context, id string) (*UnitOfMeasure, error) {
	return getResource[UnitOfMeasure](ctx, c, "/unit-of-measures/"+id)
}

func (c *Client) CreateUnitOfMeasure(ctx context.Context, input UnitOfMeasureInput) (*UnitOfMeasure, error) {
	return createResource[UnitOfMeasure](ctx, c, "/unit-of-measures", input)
}

func (c *Client) UpdateUnitOfMeasure(ctx context.Context, id string, input UnitOfMeasureInput) (*UnitOfMeasure, error) {
	return updateResource[UnitOfMeasure](ctx, c, "/unit-of-measures", id, input)
}

func (c *Client) DeleteUnitOfMeasure(ctx context.Context, id string) error {
	return deleteResource(ctx, c, "/unit-of-measures", id)
}

// ============================================================
// Services
// ============================================================

type ServiceFilter struct {
	ListFilter
	ServiceGroupID  string
	UnitOfMeasureID string
}

func (f ServiceFilter) query() url.Values {
	q := f.ListFilter.query()
	if f.ServiceGroupID != "" {
		q.Set("serviceGroupId", f.ServiceGroupID)
	}
	if f.UnitOfMeasureID != "" {
		q.Set("unitOfMeasureId", f.UnitOfMeasureID)
	}
	return q
}

type ServiceInput struct {
	ServiceCode     string   `json:"serviceCode,omitempty"`
	ServiceName     string   `json:"serviceName,omitempty"`
	ShortName       string   `json:"shortName,omitempty"`
	ServiceGroupID  *string  `json:"serviceGroupId,omitempty"`
	UnitOfMeasureID *string  `json:"unitOfMeasureId,omitempty"`
	ParentServiceID *string  `json:"parentServiceId,omitempty"`
	Mapping         string   `json:"mapping,omitempty"`
	NumOrder        *int     `json:"numOrder,omitempty"`
	CurrentPrice    *float64 `json:"currentPrice,omitempty"`
	IsActive        *bool    `json:"isActive,omitempty"`
}

func (c *Client) ListServices(ctx context.Context, f ServiceFilter) (*ListResult[Service], error) {
	return listResource[Service](ctx, c, "/services", f.query())
}

func (c *Client) GetService(ctx context.Context, id string) (*Service, error) {
	return getResource[Service](ctx, c, "/services/"+id)
}

func (c *Client) CreateService(ctx context.Context, input ServiceInput) (*Service, error) {
	return createResource[Service](ctx, c, "/services", input)
}

func (c *Client) UpdateService(ctx context.Context, id string, input ServiceInput) (*Service, error) {
	return updateResource[Service](ctx, c, "/services", id, input)
}

func (c *Client) DeleteService(ctx context.Context, id string) error {
	return deleteResource(ctx, c, "/services", id)
}

// ============================================================
// Sample types
// ============================================================

type SampleTypeInput struct {
	TypeCode           string `json:"typeCode,omitempty"`
	TypeName           string `json:"typeName,omitempty"`
	ShortName          string `json:"shortName,omitempty"`
	CodeGenerationRule string `json:"codeGenerationRule,omitempty"`
	Description        string `json:"description,omitempty"`
	IsActive           *bool  `json:"isActive,omitempty"`
}

func (c *Client) ListSampleTypes(ctx context.Context, f ListFilter) (*ListResult[SampleType], error) {
	return listResource[SampleType](ctx, c, "/sample-types", f.query())
}

func (c *Client) GetSampleType(ctx context.Context, id string) (*SampleType, error) {
	return getResource[SampleType](ctx, c, "/sample-types/"+id)
}

func (c *Client) CreateSampleType(ctx context.Context, input SampleTypeInput) (*SampleType, error) {
	return createResource[SampleType](ctx, c, "/sample-types", input)
}

func (c *Client) UpdateSampleType(ctx context.Context, id string, input SampleTypeInput) (*SampleType, error) {
	return updateResource[SampleType](ctx, c, "/sample-types", id, input)
}

func (c *Client) DeleteSampleType(ctx context.Context, id string) error {
	return deleteResource(ctx, c, "/sample-types", id)
}

// ============================================================
// Categories
// ============================================================

type CategoryInput struct {
	Code        string `json:"code,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

func (c *Client) ListCategories(ctx context.Context, f ListFilter) (*ListResult[Category], error) {
	return listResource[Category](ctx, c, "/categories", f.query())
}

func (c *Client) GetCategory(ctx context.Context, id string) (*Category, error) {
	return getResource[Category](ctx, c, "/categories/"+id)
}

func (c *Client) CreateCategory(ctx context.Context, input CategoryInput) (*Category, error) {
	return createResource[Category](ctx, c, "/categories", input)
}

func (c *Client) UpdateCategory(ctx context.Context, id string, input CategoryInput) (*Category, error) {
	return updateResource[Category](ctx, c, "/categories", id, input)
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return deleteResource(ctx, c, "/categories", id)
}

// ============================================================
// Users (admin)
// ============================================================

// UserFilter narrows the user listing
type UserFilter struct {
	ListFilter
	Role         string
	ProvinceID   string
	WardID       string
	DepartmentID string
}

func (f UserFilter) query() url.Values {
	q := f.ListFilter.query()
	if f.Role != "" {
		q.Set("role", f.Role)
	}
	if f.ProvinceID != "" {
		q.Set("provinceId", f.ProvinceID)
	}
	if f.WardID != "" {
		q.Set("wardId", f.WardID)
	}
	if f.DepartmentID != "" {
		q.Set("departmentId", f.DepartmentID)
	}
	return q
}

// UserInput creates or updates a user account
type UserInput struct {
	Username     string  `json:"username,omitempty"`
	Email        string  `json:"email,omitempty"`
	Password     string  `json:"password,omitempty"`
	FullName     string  `json:"fullName,omitempty"`
	PhoneNumber  string  `json:"phoneNumber,omitempty"`
	Address      string  `json:"address,omitempty"`
	Role         string  `json:"role,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
	HisUsername  string  `json:"hisUsername,omitempty"`
	HisPassword  string  `json:"hisPassword,omitempty"`
	ProvinceID   *string `json:"provinceId,omitempty"`
	WardID       *string `json:"wardId,omitempty"`
	DepartmentID *string `json:"departmentId,omitempty"`
}

func (c *Client) ListUsers(ctx context.Context, f UserFilter) (*ListResult[User], error) {
	return listResource[User](ctx, c, "/users", f.query())
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	return getResource[User](ctx, c, "/users/"+id)
}

func (c *Client) CreateUser(ctx context.Context, input UserInput) (*User, error) {
	return createResource[User](ctx, c, "/users", input)
}

func (c *Client) UpdateUser(ctx context.Context, id string, input UserInput) (*User, error) {
	return updateResource[User](ctx, c, "/users", id, input)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return deleteResource(ctx, c, "/users", id)
}

// ============================================================
// HIS integration
// ============================================================

// HisLogin opens an HIS session with the current user's stored credentials
func (c *Client) HisLogin(ctx context.Context) (*HisToken, error) {
	var token HisToken
	if err := c.do(ctx, http.MethodPost, "/his-integration/login", nil, nil, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// HisToken fetches the stored HIS session
func (c *Client) HisToken(ctx context.Context) (*HisToken, error) {
	var token HisToken
	if err := c.do(ctx, http.MethodGet, "/his-integration/token", nil, nil, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// HisTokenStatus fetches the expiry bookkeeping for the stored HIS session
func (c *Client) HisTokenStatus(ctx context.Context) (*HisTokenStatus, error) {
	var status HisTokenStatus
	if err := c.do(ctx, http.MethodGet, "/his-integration/token-status", nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// HisRenewToken exchanges the stored renew code for a fresh HIS token
func (c *Client) HisRenewToken(ctx context.Context) (*HisToken, error) {
	var token HisToken
	if err := c.do(ctx, http.MethodPost, "/his-integration/renew-token", nil, nil, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// HisRefreshToken opens a brand new HIS session with the stored credentials
func (c *Client) HisRefreshToken(ctx context.Context) (*HisToken, error) {
	var token HisToken
	if err := c.do(ctx, http.MethodPost, "/his-integration/refresh-token", nil, nil, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// HisCallAPI proxies a request to the HIS
func (c *Client) HisCallAPI(ctx context.Context, req HISAPIRequest) (*HISAPIResult, error) {
	var result HISAPIResult
	if err := c.do(ctx, http.MethodPost, "/his-integration/call-api", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// HisUserInfo fetches the stored HIS session for a login name
func (c *Client) HisUserInfo(ctx context.Context, username string) (*HisToken, error) {
	var token HisToken
	if err := c.do(ctx, http.MethodGet, "/his-integration/user-info/"+url.PathEscape(username), nil, nil, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// HisLogout closes the HIS session of a login name
func (c *Client) HisLogout(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodPost, "/his-integration/logout/"+url.PathEscape(username), nil, nil, nil)
}

// HisCleanupExpiredTokens removes every expired stored HIS token
func (c *Client) HisCleanupExpiredTokens(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/his-integration/cleanup-expired-tokens", nil, nil, nil)
}

// HisDirectLogin performs the HIS-first login flow and installs the local
// token pair it returns
func (c *Client) HisDirectLogin(ctx context.Context, username, password string) (*HisDirectLoginResult, error) {
	var result HisDirectLoginResult
	err := c.do(ctx, http.MethodPost, "/his-direct-login/login", nil, map[string]string{
		"username": username,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}

	if result.Auth != nil {
		c.SetTokens(result.Auth.AccessToken, result.Auth.RefreshToken)
	}
	return &result, nil
}

// HisValidateToken checks a raw HIS token code
func (c *Client) HisValidateToken(ctx context.Context, tokenCode string) (*HisTokenStatus, error) {
	var status HisTokenStatus
	err := c.do(ctx, http.MethodPost, "/his-direct-login/validate-token", nil,
		map[string]string{"tokenCode": tokenCode}, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Close releases client resources (the query cache expiry loop)
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.stop()
	}
}
