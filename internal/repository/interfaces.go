package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
)

// IdentityRepository manages authentication identities. Delete is a hard
// delete: it exists for the compensating rollback in user provisioning.
type IdentityRepository interface {
	Create(ctx context.Context, identity *model.Identity) error
	Get(ctx context.Context, id uuid.UUID) (*model.Identity, error)
	GetByEmail(ctx context.Context, email string) (*model.Identity, error)
	Update(ctx context.Context, identity *model.Identity) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Profile, error)
	GetByIdentityID(ctx context.Context, identityID uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, clinicID uuid.UUID, filters *model.UserFilters) ([]*model.Profile, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	SoftDelete(ctx context.Context, clinicID, id uuid.UUID) error
	List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
}

type NoteRepository interface {
	Create(ctx context.Context, note *model.ClinicalNote) error
	Get(ctx context.Context, clinicID, id uuid.UUID) (*model.ClinicalNote, error)
	Update(ctx context.Context, note *model.ClinicalNote) error
	SoftDelete(ctx context.Context, clinicID, id uuid.UUID) error
	List(ctx context.Context, filters *model.NoteFilters) ([]*model.ClinicalNote, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, apt *model.Appointment) error
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	// FindOverlapping returns non-terminal appointments for the clinician
	// whose time range intersects [start, end).
	FindOverlapping(ctx context.Context, clinicianID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*model.Appointment, error)
	ListForClinician(ctx context.Context, clinicianID uuid.UUID, start, end time.Time) ([]*model.Appointment, error)
}

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Group, error)
	Update(ctx context.Context, group *model.Group) error
	List(ctx context.Context, clinicID uuid.UUID) ([]*model.Group, error)

	CountActiveMembers(ctx context.Context, groupID uuid.UUID) (int, error)
	// GetActiveMember returns the active membership row for the patient, or
	// nil with no error when the patient is not an active member.
	GetActiveMember(ctx context.Context, groupID, patientID uuid.UUID) (*model.GroupMember, error)
	AddMember(ctx context.Context, member *model.GroupMember) error
	RemoveMember(ctx context.Context, groupID, patientID uuid.UUID) error
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]*model.GroupMember, error)

	// UpsertAttendance inserts or replaces the attendance row keyed by
	// (group_id, appointment_id, patient_id).
	UpsertAttendance(ctx context.Context, record *model.AttendanceRecord) error
	GetAttendance(ctx context.Context, groupID, appointmentID, patientID uuid.UUID) (*model.AttendanceRecord, error)
	ListAttendance(ctx context.Context, groupID, appointmentID uuid.UUID) ([]*model.AttendanceRecord, error)
}

type GiftCardRepository interface {
	Create(ctx context.Context, card *model.GiftCard) error
	Get(ctx context.Context, clinicID, id uuid.UUID) (*model.GiftCard, error)
	GetByCode(ctx context.Context, clinicID uuid.UUID, code string) (*model.GiftCard, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance int64, isActive bool) error
	CreateTransaction(ctx context.Context, tx *model.GiftCardTransaction) error
	ListTransactions(ctx context.Context, cardID uuid.UUID) ([]*model.GiftCardTransaction, error)
}

type MembershipRepository interface {
	CreatePlan(ctx context.Context, plan *model.MembershipPlan) error
	GetPlan(ctx context.Context, clinicID, id uuid.UUID) (*model.MembershipPlan, error)
	ListPlans(ctx context.Context, clinicID uuid.UUID) ([]*model.MembershipPlan, error)

	Create(ctx context.Context, membership *model.Membership) error
	Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Membership, error)
	// FindActive returns the active membership for the patient and plan, or
	// nil when none exists.
	FindActive(ctx context.Context, patientID, planID uuid.UUID) (*model.Membership, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.MembershipStatus) error
	List(ctx context.Context, filters *model.MembershipFilters) ([]*model.Membership, error)
}

type InventoryRepository interface {
	CreateItem(ctx context.Context, item *model.InventoryItem) error
	GetItem(ctx context.Context, clinicID, id uuid.UUID) (*model.InventoryItem, error)
	UpdateItem(ctx context.Context, item *model.InventoryItem) error
	ListItems(ctx context.Context, filters *model.InventoryFilters) ([]*model.InventoryItem, error)
	// ApplyTransaction updates the item stock and inserts the transaction
	// row in a single database transaction.
	ApplyTransaction(ctx context.Context, itemID uuid.UUID, newStock int64, tx *model.InventoryTransaction) error
	ListTransactions(ctx context.Context, itemID uuid.UUID) ([]*model.InventoryTransaction, error)
}

type FormRepository interface {
	// CreateDefinition inserts the definition and its first version, then
	// points the definition at it, in one database transaction.
	CreateDefinition(ctx context.Context, def *model.FormDefinition, version *model.FormVersion) error
	GetDefinition(ctx context.Context, clinicID, id uuid.UUID) (*model.FormDefinition, error)
	ListDefinitions(ctx context.Context, filters *model.FormFilters) ([]*model.FormDefinition, error)
	ListComplianceForms(ctx context.Context, clinicID uuid.UUID) ([]*model.FormDefinition, error)

	GetVersion(ctx context.Context, id uuid.UUID) (*model.FormVersion, error)
	ListVersions(ctx context.Context, formID uuid.UUID) ([]*model.FormVersion, error)
	// PublishVersion inserts the version and repoints the parent definition.
	// Existing version rows are never mutated.
	PublishVersion(ctx context.Context, formID uuid.UUID, version *model.FormVersion) error

	CreateAssignment(ctx context.Context, assignment *model.FormAssignment) error
	GetAssignment(ctx context.Context, clinicID, id uuid.UUID) (*model.FormAssignment, error)
	ListAssignments(ctx context.Context, clinicID, patientID uuid.UUID) ([]*model.FormAssignment, error)
	CompleteAssignment(ctx context.Context, assignment *model.FormAssignment) error
}

// TaskRepository keeps soft-deleted rows readable: Get returns the row
// regardless of the is_deleted flag, List excludes deleted rows.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	SoftDelete(ctx context.Context, clinicID, id uuid.UUID) error
	List(ctx context.Context, filters *model.TaskFilters) ([]*model.Task, error)
}

type AuditRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	List(ctx context.Context, filters *model.AuditFilters) ([]*model.AuditLog, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
