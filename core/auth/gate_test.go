package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_Check(t *testing.T) {
	teacherGate := Authorize("teacher", "admin")
	adminGate := Authorize("admin")

	tests := []struct {
		name    string
		gate    Gate
		id      *Identity
		wantErr error
	}{
		{name: "no identity", gate: teacherGate, wantErr: ErrUnauthenticated},
		{name: "role not listed", gate: teacherGate, id: &Identity{UserID: "1", Role: "student"}, wantErr: ErrForbidden},
		{name: "primary role", gate: teacherGate, id: &Identity{UserID: "1", Role: "teacher"}},
		{name: "listed admin", gate: teacherGate, id: &Identity{UserID: "1", Role: "admin"}},
		{name: "no hierarchy", gate: adminGate, id: &Identity{UserID: "1", Role: "teacher"}, wantErr: ErrForbidden},
		{name: "unknown role", gate: adminGate, id: &Identity{UserID: "1", Role: "root"}, wantErr: ErrForbidden},
		{name: "empty allow-list", gate: Authorize(), id: &Identity{UserID: "1", Role: "admin"}, wantErr: ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, tt.gate.Check(tt.id))
		})
	}
}
