// infra/graphql/roster_provider.graphql.go
package graphql

import (
	"context"
	"fmt"

	domainError "github.com/vuthysan/school-management-system-sub000/domain/errors"
	"github.com/vuthysan/school-management-system-sub000/domain/student"
	"github.com/vuthysan/school-management-system-sub000/ports/repository"
)

// RosterProvider implements repository.RosterProvider over the endpoint.
type RosterProvider struct {
	client *Client
}

func NewRosterProvider(c *Client) *RosterProvider {
	return &RosterProvider{client: c}
}

var _ repository.RosterProvider = (*RosterProvider)(nil)

func (p *RosterProvider) StudentsByClass(ctx context.Context, classID string) ([]student.Student, error) {
	if classID == "" {
		return nil, fmt.Errorf("%w: class id is required", domainError.ErrInvalidInput)
	}
	var data struct {
		StudentsByClass []struct {
			ID        string `json:"id"`
			StudentID string `json:"studentId"` // external student code
			FullName  string `json:"fullName"`
			PhotoURL  string `json:"photoUrl"`
		} `json:"studentsByClass"`
	}
	if err := p.client.Run(ctx, opStudentsByClass, map[string]any{"classId": classID}, &data); err != nil {
		return nil, err
	}
	out := make([]student.Student, 0, len(data.StudentsByClass))
	for _, w := range data.StudentsByClass {
		out = append(out, student.Student{
			ID:       w.ID,
			FullName: w.FullName,
			PhotoURL: w.PhotoURL,
			Code:     w.StudentID,
		})
	}
	return out, nil
}
