package memory

import (
	"context"
	"sort"
	"sync"

	"regen-insight/server/internal/county"
	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
	"regen-insight/server/internal/repository"
)

type AdminRepo struct {
	mu     sync.RWMutex
	admins map[string]model.Admin
}

func NewAdminRepo() *AdminRepo {
	return &AdminRepo{admins: map[string]model.Admin{}}
}

func (r *AdminRepo) Create(_ context.Context, a *model.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.Role == model.RoleSub {
		subCount := 0
		for _, existing := range r.admins {
			if existing.Role != model.RoleSub {
				continue
			}
			subCount++
			if a.CountyID != nil && existing.CountyID != nil && *existing.CountyID == *a.CountyID {
				return errs.ErrCountyAssigned
			}
		}
		if subCount >= county.Count {
			return errs.ErrCapacityExceeded
		}
	}
	r.admins[a.ID] = *a
	return nil
}

func (r *AdminRepo) GetByID(_ context.Context, id string) (*model.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.admins[id]
	if !ok {
		return nil, errs.ErrAdminNotFound
	}
	return &a, nil
}

func (r *AdminRepo) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.admins {
		if a.Email == email {
			out := a
			return &out, nil
		}
	}
	return nil, errs.ErrAdminNotFound
}

func (r *AdminRepo) Update(_ context.Context, id string, patch repository.AdminUpdate) (*model.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return nil, errs.ErrAdminNotFound
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Email != nil {
		a.Email = *patch.Email
	}
	if patch.ContactPhone != nil {
		a.ContactPhone = *patch.ContactPhone
	}
	if patch.ContactEmail != nil {
		a.ContactEmail = *patch.ContactEmail
	}
	r.admins[id] = a
	return &a, nil
}

func (r *AdminRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.admins, id)
	return nil
}

func (r *AdminRepo) ListSubAdmins(_ context.Context) ([]model.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subs := make([]model.Admin, 0, len(r.admins))
	for _, a := range r.admins {
		if a.Role == model.RoleSub {
			subs = append(subs, a)
		}
	}
	sort.SliceStable(subs, func(i, j int) bool {
		var ci, cj int
		if subs[i].CountyID != nil {
			ci = *subs[i].CountyID
		}
		if subs[j].CountyID != nil {
			cj = *subs[j].CountyID
		}
		return ci < cj
	})
	return subs, nil
}

func (r *AdminRepo) FindSubAdminByCounty(_ context.Context, countyID int) (*model.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.admins {
		if a.Role == model.RoleSub && a.CountyID != nil && *a.CountyID == countyID {
			out := a
			return &out, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *AdminRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.admins), nil
}

func (r *AdminRepo) CountSubAdmins(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, a := range r.admins {
		if a.Role == model.RoleSub {
			count++
		}
	}
	return count, nil
}
