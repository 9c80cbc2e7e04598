// Package repotest implementaciones en memoria de los puertos de repository para tests
// de casos de uso y handlers. Respetan los mismos contratos que los adaptadores
// PostgreSQL: (nil, nil) si no existe, índice único parcial de asistencia, upserts.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
)

// Store agrupa todos los repositorios en memoria.
type Store struct {
	Companies  *Companies
	Branches   *Branches
	Users      *Users
	Licenses   *Licenses
	Modules    *Modules
	Zones      *Zones
	Attendance *Attendance
	OTP        *OTP
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		Companies:  &Companies{byID: map[string]*entity.Company{}},
		Branches:   &Branches{byID: map[string]*entity.Branch{}},
		Users:      &Users{byID: map[string]*entity.User{}},
		Licenses:   &Licenses{byCompany: map[string]*entity.License{}},
		Modules:    newModules(),
		Zones:      &Zones{byID: map[string]*entity.GeofenceZone{}},
		Attendance: &Attendance{byID: map[string]*entity.AttendanceLog{}},
		OTP:        &OTP{codes: map[string]*entity.OneTimeCode{}, Now: time.Now},
	}
}

// RunModules ejecuta fn y, si falla, restaura los permisos previos (atomicidad).
func (s *Store) RunModules(ctx context.Context, fn func(repository.ModuleRepository) error) error {
	snap := s.Modules.snapshot()
	if err := fn(s.Modules); err != nil {
		s.Modules.restore(snap)
		return err
	}
	return nil
}

// RunCompanySetup ejecuta fn con los repos del alta de empresa; sin rollback real.
func (s *Store) RunCompanySetup(ctx context.Context, fn func(
	companies repository.CompanyRepository,
	licenses repository.LicenseRepository,
	modules repository.ModuleRepository,
	users repository.UserRepository,
) error) error {
	return fn(s.Companies, s.Licenses, s.Modules, s.Users)
}

// ── Companies ────────────────────────────────────────────────────────────────

type Companies struct {
	mu   sync.Mutex
	byID map[string]*entity.Company
	Err  error // si no es nil, todas las operaciones fallan con él
}

var _ repository.CompanyRepository = (*Companies)(nil)

func (r *Companies) Create(_ context.Context, c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, x := range r.byID {
		if x.Code == c.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *Companies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if c, ok := r.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *Companies) GetByCode(_ context.Context, code string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, c := range r.byID {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Companies) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*entity.Company, 0, len(r.byID))
	for _, c := range r.byID {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return page(list, limit, offset), nil
}

func (r *Companies) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.IsActive = active
	return nil
}

// ── Branches ─────────────────────────────────────────────────────────────────

type Branches struct {
	mu   sync.Mutex
	byID map[string]*entity.Branch
}

var _ repository.BranchRepository = (*Branches)(nil)

func (r *Branches) Create(_ context.Context, b *entity.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.byID {
		if x.CompanyID == b.CompanyID && strings.EqualFold(x.Name, b.Name) {
			return domain.ErrBranchNameExists
		}
	}
	cp := *b
	r.byID[b.ID] = &cp
	return nil
}

func (r *Branches) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.byID[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *Branches) Update(_ context.Context, b *entity.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[b.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, x := range r.byID {
		if x.ID != b.ID && x.CompanyID == b.CompanyID && strings.EqualFold(x.Name, b.Name) {
			return domain.ErrBranchNameExists
		}
	}
	cp := *b
	r.byID[b.ID] = &cp
	return nil
}

func (r *Branches) ListByCompany(_ context.Context, companyID string) ([]*entity.Branch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Branch
	for _, b := range r.byID {
		if b.CompanyID == companyID {
			cp := *b
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *Branches) CountByCompany(ctx context.Context, companyID string) (int, error) {
	list, err := r.ListByCompany(ctx, companyID)
	return len(list), err
}

// ── Users ────────────────────────────────────────────────────────────────────

type Users struct {
	mu   sync.Mutex
	byID map[string]*entity.User
	Err  error
}

var _ repository.UserRepository = (*Users)(nil)

func (r *Users) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.byID {
		if x.Company() != u.Company() {
			continue
		}
		switch {
		case eqPtr(x.Email, u.Email):
			return domain.ErrEmailAlreadyExists
		case eqPtr(x.Phone, u.Phone):
			return domain.ErrPhoneAlreadyExists
		case eqPtr(x.EmployeeCode, u.EmployeeCode):
			return domain.ErrEmployeeCodeAlreadyExists
		}
	}
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

// Put sobrescribe el usuario sin validar duplicados (preparar escenarios).
func (r *Users) Put(u *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.byID[u.ID] = &cp
}

func (r *Users) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *Users) FindByIdentifier(_ context.Context, companyID, identifier string) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entity.User
	for _, u := range r.byID {
		if u.Company() != companyID {
			continue
		}
		if eqStr(u.Email, identifier) || eqStr(u.Phone, identifier) || eqStr(u.EmployeeCode, identifier) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *Users) ListByCompany(_ context.Context, companyID, branchID string, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.User
	for _, u := range r.byID {
		if u.Company() != companyID || (branchID != "" && u.Branch() != branchID) {
			continue
		}
		cp := *u
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return page(list, limit, offset), nil
}

func (r *Users) CountByCompany(ctx context.Context, companyID string) (int, error) {
	list, err := r.ListByCompany(ctx, companyID, "", 0, 0)
	return len(list), err
}

func (r *Users) CountByBranch(_ context.Context, branchID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.byID {
		if u.Branch() == branchID {
			n++
		}
	}
	return n, nil
}

// ── Licenses ─────────────────────────────────────────────────────────────────

type Licenses struct {
	mu        sync.Mutex
	byCompany map[string]*entity.License
}

var _ repository.LicenseRepository = (*Licenses)(nil)

func (r *Licenses) Create(_ context.Context, l *entity.License) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCompany[l.CompanyID]; ok {
		return domain.ErrDuplicate
	}
	cp := *l
	r.byCompany[l.CompanyID] = &cp
	return nil
}

func (r *Licenses) GetByCompany(_ context.Context, companyID string) (*entity.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.byCompany[companyID]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r *Licenses) Update(_ context.Context, l *entity.License) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCompany[l.CompanyID]; !ok {
		return domain.ErrNotFound
	}
	cp := *l
	r.byCompany[l.CompanyID] = &cp
	return nil
}

func (r *Licenses) ListExpiringBefore(_ context.Context, t time.Time) ([]*entity.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.License
	for _, l := range r.byCompany {
		if l.IsActive && l.EndDate.Before(t) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── Modules ──────────────────────────────────────────────────────────────────

type Modules struct {
	mu        sync.Mutex
	company   map[string]map[string]*entity.CompanyModule
	managers  map[string][]*entity.BranchManagerModule
	employees map[string][]*entity.EmployeeModuleAccess
	// FailReplace hace fallar los Replace*, para probar la atomicidad.
	FailReplace error
}

var _ repository.ModuleRepository = (*Modules)(nil)

func newModules() *Modules {
	return &Modules{
		company:   map[string]map[string]*entity.CompanyModule{},
		managers:  map[string][]*entity.BranchManagerModule{},
		employees: map[string][]*entity.EmployeeModuleAccess{},
	}
}

type modulesSnapshot struct {
	managers  map[string][]*entity.BranchManagerModule
	employees map[string][]*entity.EmployeeModuleAccess
}

func (r *Modules) snapshot() modulesSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := modulesSnapshot{managers: map[string][]*entity.BranchManagerModule{}, employees: map[string][]*entity.EmployeeModuleAccess{}}
	for k, v := range r.managers {
		s.managers[k] = append([]*entity.BranchManagerModule(nil), v...)
	}
	for k, v := range r.employees {
		s.employees[k] = append([]*entity.EmployeeModuleAccess(nil), v...)
	}
	return s
}

func (r *Modules) restore(s modulesSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.managers = s.managers
	r.employees = s.employees
}

func (r *Modules) ListCompanyModules(_ context.Context, companyID string) ([]*entity.CompanyModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.CompanyModule
	for _, m := range r.company[companyID] {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModuleName < out[j].ModuleName })
	return out, nil
}

func (r *Modules) GetCompanyModule(_ context.Context, companyID, moduleName string) (*entity.CompanyModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.company[companyID][moduleName]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r *Modules) UpsertCompanyModules(_ context.Context, companyID string, modules []*entity.CompanyModule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.company[companyID] == nil {
		r.company[companyID] = map[string]*entity.CompanyModule{}
	}
	for _, m := range modules {
		cp := *m
		cp.CompanyID = companyID
		r.company[companyID][m.ModuleName] = &cp
	}
	return nil
}

func (r *Modules) ListManagerModules(_ context.Context, managerID string) ([]*entity.BranchManagerModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.BranchManagerModule(nil), r.managers[managerID]...), nil
}

func (r *Modules) GetManagerModule(_ context.Context, managerID, moduleName string) (*entity.BranchManagerModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.managers[managerID] {
		if m.ModuleName == moduleName {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Modules) ReplaceManagerModules(_ context.Context, managerID string, rows []*entity.BranchManagerModule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.managers, managerID)
	if r.FailReplace != nil {
		return r.FailReplace
	}
	r.managers[managerID] = append([]*entity.BranchManagerModule(nil), rows...)
	return nil
}

func (r *Modules) ListEmployeeModules(_ context.Context, employeeID string) ([]*entity.EmployeeModuleAccess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.EmployeeModuleAccess(nil), r.employees[employeeID]...), nil
}

func (r *Modules) GetEmployeeModule(_ context.Context, employeeID, moduleName string) (*entity.EmployeeModuleAccess, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.employees[employeeID] {
		if m.ModuleName == moduleName {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Modules) ReplaceEmployeeModules(_ context.Context, employeeID string, rows []*entity.EmployeeModuleAccess) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.employees, employeeID)
	if r.FailReplace != nil {
		return r.FailReplace
	}
	r.employees[employeeID] = append([]*entity.EmployeeModuleAccess(nil), rows...)
	return nil
}

// ── Geofence zones ───────────────────────────────────────────────────────────

type Zones struct {
	mu   sync.Mutex
	byID map[string]*entity.GeofenceZone
	Err  error // falla de consulta simulada en ListVisible
}

var _ repository.GeofenceRepository = (*Zones)(nil)

func (r *Zones) Create(_ context.Context, z *entity.GeofenceZone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *z
	r.byID[z.ID] = &cp
	return nil
}

func (r *Zones) GetByID(_ context.Context, id string) (*entity.GeofenceZone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if z, ok := r.byID[id]; ok {
		cp := *z
		return &cp, nil
	}
	return nil, nil
}

func (r *Zones) Update(_ context.Context, z *entity.GeofenceZone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[z.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *z
	r.byID[z.ID] = &cp
	return nil
}

func (r *Zones) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Zones) ListVisible(_ context.Context, companyID, branchID string) ([]*entity.GeofenceZone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entity.GeofenceZone
	for _, z := range r.byID {
		if z.CompanyID != companyID || !z.IsActive {
			continue
		}
		if z.BranchID != nil && *z.BranchID != branchID {
			continue
		}
		cp := *z
		out = append(out, &cp)
	}
	sortZones(out)
	return out, nil
}

func (r *Zones) ListByCompany(_ context.Context, companyID, branchID string) ([]*entity.GeofenceZone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.GeofenceZone
	for _, z := range r.byID {
		if z.CompanyID != companyID {
			continue
		}
		if branchID != "" && (z.BranchID == nil || *z.BranchID != branchID) {
			continue
		}
		cp := *z
		out = append(out, &cp)
	}
	sortZones(out)
	return out, nil
}

func sortZones(z []*entity.GeofenceZone) {
	sort.Slice(z, func(i, j int) bool {
		if !z[i].CreatedAt.Equal(z[j].CreatedAt) {
			return z[i].CreatedAt.Before(z[j].CreatedAt)
		}
		return z[i].ID < z[j].ID
	})
}

// ── Attendance ───────────────────────────────────────────────────────────────

type Attendance struct {
	mu   sync.Mutex
	byID map[string]*entity.AttendanceLog
}

var _ repository.AttendanceRepository = (*Attendance)(nil)

// CreateOpen equivale al índice único parcial (user_id, attendance_date) WHERE check_out IS NULL.
func (r *Attendance) CreateOpen(_ context.Context, l *entity.AttendanceLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.byID {
		if x.UserID == l.UserID && x.AttendanceDate.Equal(l.AttendanceDate) && x.CheckOut == nil {
			return domain.ErrAlreadyCheckedIn
		}
	}
	cp := *l
	r.byID[l.ID] = &cp
	return nil
}

func (r *Attendance) FindOpen(_ context.Context, userID string, day time.Time) (*entity.AttendanceLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.byID {
		if x.UserID == userID && x.AttendanceDate.Equal(day) && x.CheckOut == nil {
			cp := *x
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Attendance) Close(_ context.Context, l *entity.AttendanceLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	x, ok := r.byID[l.ID]
	if !ok || x.CheckOut != nil {
		return domain.ErrNoActiveCheckIn
	}
	cp := *l
	r.byID[l.ID] = &cp
	return nil
}

func (r *Attendance) LatestByUser(_ context.Context, userID string) (*entity.AttendanceLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.AttendanceLog
	for _, x := range r.byID {
		if x.UserID == userID && (latest == nil || x.CheckIn.After(latest.CheckIn)) {
			latest = x
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *Attendance) ListByUser(_ context.Context, userID string, from, to time.Time, limit, offset int) ([]*entity.AttendanceLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AttendanceLog
	for _, x := range r.byID {
		if x.UserID != userID || x.AttendanceDate.Before(from) || x.AttendanceDate.After(to) {
			continue
		}
		cp := *x
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.After(out[j].CheckIn) })
	return page(out, limit, offset), nil
}

// OpenCount registros abiertos del usuario (para verificar el invariante en tests).
func (r *Attendance) OpenCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.byID {
		if x.UserID == userID && x.CheckOut == nil {
			n++
		}
	}
	return n
}

// ── OTP ──────────────────────────────────────────────────────────────────────

type OTP struct {
	mu    sync.Mutex
	codes map[string]*entity.OneTimeCode
	Now   func() time.Time
}

var _ repository.OTPStore = (*OTP)(nil)

func (r *OTP) Put(_ context.Context, key, codeHash string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[key] = &entity.OneTimeCode{Key: key, CodeHash: codeHash, ExpiresAt: r.Now().Add(ttl)}
	return nil
}

func (r *OTP) Get(_ context.Context, key string) (*entity.OneTimeCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[key]
	if !ok || !r.Now().Before(c.ExpiresAt) {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *OTP) IncrementAttempts(_ context.Context, key string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[key]
	if !ok {
		return 0, nil
	}
	c.Attempts++
	return c.Attempts, nil
}

func (r *OTP) Consume(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[key]
	if !ok || !r.Now().Before(c.ExpiresAt) {
		return false, nil
	}
	delete(r.codes, key)
	return true, nil
}

func (r *OTP) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, key)
	return nil
}

// Has informa si la clave sigue guardada (vigente o no).
func (r *OTP) Has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.codes[key]
	return ok
}

// ── helpers ──────────────────────────────────────────────────────────────────

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return list[:0]
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func eqPtr(a, b *string) bool {
	return a != nil && b != nil && *a != "" && *a == *b
}

func eqStr(p *string, s string) bool {
	return p != nil && *p == s
}
