package postgres

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	apperrors "github.com/williamdagle/clinic-admin-api/pkg/errors"
	"github.com/williamdagle/clinic-admin-api/internal/repository"
)

type identityRepository struct {
	db *sqlx.DB
}

type profileRepository struct {
	db *sqlx.DB
	// privileged pool for hard deletes
	privileged *sqlx.DB
}

type patientRepository struct {
	db *sqlx.DB
}

type noteRepository struct {
	db *sqlx.DB
}

type appointmentRepository struct {
	db *sqlx.DB
}

type groupRepository struct {
	db *sqlx.DB
}

type giftCardRepository struct {
	db *sqlx.DB
}

type membershipRepository struct {
	db *sqlx.DB
}

type inventoryRepository struct {
	db *sqlx.DB
}

type formRepository struct {
	db *sqlx.DB
}

type taskRepository struct {
	db *sqlx.DB
}

type auditRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

// NewIdentityRepository requires the privileged pool: identity rows are
// created and deleted by provisioning only.
func NewIdentityRepository(privileged *sqlx.DB) repository.IdentityRepository {
	return &identityRepository{db: privileged}
}

func NewProfileRepository(app, privileged *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: app, privileged: privileged}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewNoteRepository(db *sqlx.DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewGroupRepository(db *sqlx.DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

func NewGiftCardRepository(db *sqlx.DB) repository.GiftCardRepository {
	return &giftCardRepository{db: db}
}

func NewMembershipRepository(db *sqlx.DB) repository.MembershipRepository {
	return &membershipRepository{db: db}
}

func NewInventoryRepository(db *sqlx.DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func NewFormRepository(db *sqlx.DB) repository.FormRepository {
	return &formRepository{db: db}
}

func NewTaskRepository(db *sqlx.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

// notFoundOr maps sql.ErrNoRows onto the 404 branch of the error taxonomy.
func notFoundOr(err error, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(resource)
	}
	return err
}
