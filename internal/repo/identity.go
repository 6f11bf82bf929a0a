package repo

import (
	"errors"
	"strings"

	"isa/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrIdentityNotFound indicates the identifier matched no client, profile or admin
var ErrIdentityNotFound = errors.New("identity not found")

// IdentityMatch is the result of resolving a public identifier to a tenant.
// Table records which table produced the match so callers can log provenance.
type IdentityMatch struct {
	Table     string
	TenantID  uuid.UUID
	Matricula string
	Name      string
}

// IdentityRepository resolves public identifiers (matricula or CPF) to tenants
type IdentityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Resolve probes clients, then profiles, then admins for the identifier.
// Each table is probed once with every identifier candidate (raw and
// digits-only), so a later table never outranks an earlier one and formatted
// CPFs (123.456.789-00) still match rows stored without punctuation.
func (r *IdentityRepository) Resolve(identifier string) (*IdentityMatch, error) {
	candidates := identifierCandidates(identifier)
	if len(candidates) == 0 {
		return nil, ErrIdentityNotFound
	}

	probes := []func([]string) (*IdentityMatch, error){
		r.probeClients,
		r.probeProfiles,
		r.probeAdmins,
	}
	for _, probe := range probes {
		match, err := probe(candidates)
		if err == nil {
			return match, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, ErrIdentityNotFound
}

// identifierCandidates returns the lookup candidates for an identifier: the
// raw value first, then the digits-only form when it differs.
func identifierCandidates(identifier string) []string {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil
	}
	candidates := []string{identifier}
	if digits := digitsOnly(identifier); digits != "" && digits != identifier {
		candidates = append(candidates, digits)
	}
	return candidates
}

func (r *IdentityRepository) probeClients(candidates []string) (*IdentityMatch, error) {
	var client models.Client
	err := r.db.Where("matricula IN ? OR cpf IN ?", candidates, candidates).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &IdentityMatch{
		Table:     "clients",
		TenantID:  client.UserID,
		Matricula: client.Matricula,
		Name:      client.Name,
	}, nil
}

func (r *IdentityRepository) probeProfiles(candidates []string) (*IdentityMatch, error) {
	var profile models.Profile
	err := r.db.Where("matricula IN ? OR cpf IN ?", candidates, candidates).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	// The profile's own id is the tenant user id
	return &IdentityMatch{
		Table:     "profiles",
		TenantID:  profile.ID,
		Matricula: profile.Matricula,
		Name:      profile.FullName,
	}, nil
}

func (r *IdentityRepository) probeAdmins(candidates []string) (*IdentityMatch, error) {
	var admin models.Admin
	err := r.db.Where("matricula IN ? OR cpf IN ?", candidates, candidates).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &IdentityMatch{
		Table:     "admins",
		TenantID:  admin.UserID,
		Matricula: admin.Matricula,
	}, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
