package mapping

import (
	"database/sql"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	m := models.User{
		UserID:         d.UserID,
		Username:       d.Username,
		PasswordHash:   d.PasswordHash,
		Name:           d.Name,
		Email:          d.Email,
		Role:           string(d.Role),
		OrganizationID: d.OrganizationID,
		Permissions:    d.Permissions,
		AuditFields:    ToModelAuditFields(d.AuditFields),
		DeletedAt:      d.DeletedAt,
	}
	m.CustomRoleID = toNullString(d.CustomRoleID)
	m.AuthProvider = toNullString(d.AuthProvider)
	m.ProviderUserID = toNullString(d.ProviderUserID)
	if d.RefreshTokenHash != "" {
		m.RefreshTokenHash = sql.NullString{String: d.RefreshTokenHash, Valid: true}
	}
	if d.RefreshTokenExpiryTime != nil {
		m.RefreshTokenExpiryTime = sql.NullTime{Time: *d.RefreshTokenExpiryTime, Valid: true}
	}
	return m
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:         m.UserID,
		Username:       m.Username,
		PasswordHash:   m.PasswordHash,
		Name:           m.Name,
		Email:          m.Email,
		Role:           domain.UserRole(m.Role),
		OrganizationID: m.OrganizationID,
		Permissions:    m.Permissions,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		DeletedAt:      m.DeletedAt,
	}
	d.CustomRoleID = fromNullString(m.CustomRoleID)
	d.AuthProvider = fromNullString(m.AuthProvider)
	d.ProviderUserID = fromNullString(m.ProviderUserID)
	if m.RefreshTokenHash.Valid {
		d.RefreshTokenHash = m.RefreshTokenHash.String
	}
	if m.RefreshTokenExpiryTime.Valid {
		t := m.RefreshTokenExpiryTime.Time
		d.RefreshTokenExpiryTime = &t
	}
	return d
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
