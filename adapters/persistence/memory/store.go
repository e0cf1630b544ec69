// Package memory holds process-local repositories. The server uses them when
// DB_DSN is "memory"; tests use them in place of Postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/resume-builder/internal/domain/resume"
	"github.com/khoahotran/resume-builder/internal/domain/upload"
	"github.com/khoahotran/resume-builder/internal/domain/user"
	"github.com/khoahotran/resume-builder/pkg/apperror"
)

type UserRepo struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]user.User
	byEmail map[string]uuid.UUID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byID: map[uuid.UUID]user.User{}, byEmail: map[string]uuid.UUID{}}
}

func (r *UserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return apperror.NewConflict("User", "email", u.Email)
	}
	r.byID[u.ID] = *u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, apperror.NewNotFound("User", email)
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("User", id.String())
	}
	return &u, nil
}

type ResumeRepo struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]resume.Resume
}

func NewResumeRepo() *ResumeRepo {
	return &ResumeRepo{rows: map[uuid.UUID]resume.Resume{}}
}

func (r *ResumeRepo) Save(_ context.Context, res *resume.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[res.ID]; ok {
		return apperror.NewConflict("Resume", "id", res.ID.String())
	}
	r.rows[res.ID] = cloneResume(*res)
	return nil
}

func (r *ResumeRepo) Update(_ context.Context, res *resume.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[res.ID]
	if !ok || cur.OwnerID != res.OwnerID {
		return apperror.NewNotFound("Resume", res.ID.String())
	}
	next := cloneResume(*res)
	next.OwnerID = cur.OwnerID
	next.CreatedAt = cur.CreatedAt
	r.rows[res.ID] = next
	return nil
}

func (r *ResumeRepo) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[id]
	if !ok || cur.OwnerID != ownerID {
		return apperror.NewNotFound("Resume", id.String())
	}
	delete(r.rows, id)
	return nil
}

func (r *ResumeRepo) FindByID(_ context.Context, id uuid.UUID) (*resume.Resume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.rows[id]
	if !ok {
		return nil, apperror.NewNotFound("Resume", id.String())
	}
	out := cloneResume(res)
	return &out, nil
}

func (r *ResumeRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*resume.Resume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*resume.Resume, 0)
	for _, res := range r.rows {
		if res.OwnerID == ownerID {
			c := cloneResume(res)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Len reports the number of stored resumes.
func (r *ResumeRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

func cloneResume(r resume.Resume) resume.Resume {
	r.Education = append([]resume.Education(nil), r.Education...)
	r.Experience = append([]resume.Experience(nil), r.Experience...)
	r.Skills = append([]string(nil), r.Skills...)
	r.Projects = append([]resume.Project(nil), r.Projects...)
	r.Normalize()
	if r.UploadID != nil {
		id := *r.UploadID
		r.UploadID = &id
	}
	return r
}

type UploadRepo struct {
	mu       sync.RWMutex
	rows     map[uuid.UUID]upload.ResumeUpload
	analyses map[uuid.UUID]upload.Analysis
}

func NewUploadRepo() *UploadRepo {
	return &UploadRepo{rows: map[uuid.UUID]upload.ResumeUpload{}, analyses: map[uuid.UUID]upload.Analysis{}}
}

func (r *UploadRepo) Save(_ context.Context, u *upload.ResumeUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[u.ID] = *u
	return nil
}

func (r *UploadRepo) FindByID(_ context.Context, id uuid.UUID) (*upload.ResumeUpload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.rows[id]
	if !ok {
		return nil, apperror.NewNotFound("Upload", id.String())
	}
	return &u, nil
}

func (r *UploadRepo) LatestByOwner(_ context.Context, ownerID uuid.UUID) (*upload.ResumeUpload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *upload.ResumeUpload
	for _, u := range r.rows {
		if u.OwnerID != ownerID {
			continue
		}
		if latest == nil || u.CreatedAt.After(latest.CreatedAt) {
			c := u
			latest = &c
		}
	}
	if latest == nil {
		return nil, apperror.NewNotFound("Upload", ownerID.String())
	}
	return latest, nil
}

func (r *UploadRepo) SaveAnalysis(_ context.Context, a *upload.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses[a.UploadID] = *a
	return nil
}

func (r *UploadRepo) FindAnalysis(_ context.Context, uploadID uuid.UUID) (*upload.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.analyses[uploadID]
	if !ok {
		return nil, apperror.NewNotFound("Analysis", uploadID.String())
	}
	return &a, nil
}

type TokenStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewTokenStore() *TokenStore {
	return &TokenStore{revoked: map[string]time.Time{}, now: time.Now}
}

func (s *TokenStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = s.now().Add(ttl)
	return nil
}

func (s *TokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if s.now().After(exp) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
