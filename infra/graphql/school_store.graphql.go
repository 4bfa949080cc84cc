// infra/graphql/school_store.graphql.go
package graphql

import (
	"context"
	"errors"
	"fmt"

	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
	"github.com/vuthysan/school-management-system-sub000/domain/school"
	"github.com/vuthysan/school-management-system-sub000/ports/repository"
)

// SchoolStore implements repository.SchoolStore over the endpoint.
type SchoolStore struct {
	client *Client
}

func NewSchoolStore(c *Client) *SchoolStore {
	return &SchoolStore{client: c}
}

var _ repository.SchoolStore = (*SchoolStore)(nil)

type schoolWire struct {
	ID   string `json:"id"`
	Name struct {
		En string `json:"en"`
		Km string `json:"km"`
	} `json:"name"`
	Code       string `json:"code"`
	SchoolType string `json:"schoolType"`
	Status     string `json:"status"`
	Stats      *struct {
		TotalStudents int `json:"totalStudents"`
		TotalTeachers int `json:"totalTeachers"`
		TotalClasses  int `json:"totalClasses"`
		TotalBranches int `json:"totalBranches"`
	} `json:"stats"`
}

func (w schoolWire) toDomain() (*school.School, error) {
	status, err := school.ParseStatus(w.Status)
	if err != nil {
		return nil, fmt.Errorf("school %s: %w", w.ID, err)
	}
	out := &school.School{
		ID:     w.ID,
		Name:   school.LocalizedName{En: w.Name.En, Km: w.Name.Km},
		Code:   w.Code,
		Type:   w.SchoolType,
		Status: status,
	}
	if w.Stats != nil {
		out.Stats = &school.Stats{
			TotalStudents: w.Stats.TotalStudents,
			TotalTeachers: w.Stats.TotalTeachers,
			TotalClasses:  w.Stats.TotalClasses,
			TotalBranches: w.Stats.TotalBranches,
		}
	}
	return out, nil
}

func (s *SchoolStore) SchoolByID(ctx context.Context, id string) (*school.School, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: school id is required", domainError.ErrInvalidInput)
	}
	var data struct {
		School *schoolWire `json:"school"`
	}
	if err := s.client.Run(ctx, opSchoolByID, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.School == nil {
		return nil, fmt.Errorf("%w: school %s", domainError.ErrNotFound, id)
	}
	return data.School.toDomain()
}

// PendingSchools is best-effort: an authorization rejection is a normal
// outcome for unprivileged principals and becomes the Unauthorized variant,
// never an error.
func (s *SchoolStore) PendingSchools(ctx context.Context) (repository.PendingSchools, error) {
	var data struct {
		PendingSchools []schoolWire `json:"pendingSchools"`
	}
	if err := s.client.Run(ctx, opPendingSchools, nil, &data); err != nil {
		if errors.Is(err, domainError.ErrUnauthorized) {
			return repository.PendingSchools{Unauthorized: true}, nil
		}
		return repository.PendingSchools{}, err
	}
	out := repository.PendingSchools{Schools: make([]school.School, 0, len(data.PendingSchools))}
	for _, w := range data.PendingSchools {
		sch, err := w.toDomain()
		if err != nil {
			return repository.PendingSchools{}, err
		}
		out.Schools = append(out.Schools, *sch)
	}
	return out, nil
}
