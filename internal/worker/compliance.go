package worker

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/williamdagle/clinic-admin-api/internal/model"
	"github.com/williamdagle/clinic-admin-api/internal/repository"
	"github.com/williamdagle/clinic-admin-api/pkg/logger"
	"github.com/williamdagle/clinic-admin-api/pkg/messaging"
)

// compliancePayload is the subset of the event body the worker needs. Both
// patient and membership events carry these fields.
type compliancePayload struct {
	ID             uuid.UUID `json:"id"`
	PatientID      uuid.UUID `json:"patient_id"`
	ClinicID       uuid.UUID `json:"clinic_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
}

// ComplianceWorker consumes patient-activated and membership-enrolled events
// and auto-assigns the clinic's required compliance forms. Best-effort and at
// most once: a failed assignment is logged and dropped, the primary write
// that produced the event is never affected.
type ComplianceWorker struct {
	formRepo repository.FormRepository
	broker   messaging.Broker
	logger   *logger.Logger
}

func NewComplianceWorker(formRepo repository.FormRepository, broker messaging.Broker, logger *logger.Logger) *ComplianceWorker {
	return &ComplianceWorker{formRepo: formRepo, broker: broker, logger: logger}
}

func (w *ComplianceWorker) Start(ctx context.Context) error {
	channels := []string{model.EventPatientCreated, model.EventPatientActivated, model.EventMembershipEnrolled}

	for _, channel := range channels {
		messages, err := w.broker.Subscribe(ctx, channel)
		if err != nil {
			return err
		}
		go w.consume(ctx, channel, messages)
	}

	w.logger.Info("compliance worker started")
	<-ctx.Done()
	w.logger.Info("compliance worker shutting down")
	return nil
}

func (w *ComplianceWorker) consume(ctx context.Context, channel string, messages <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			w.handleMessage(ctx, channel, msg)
		}
	}
}

func (w *ComplianceWorker) handleMessage(ctx context.Context, channel string, msg []byte) {
	var payload compliancePayload
	if err := json.Unmarshal(msg, &payload); err != nil {
		w.logger.Error(err, "failed to decode event payload", "channel", channel)
		return
	}

	patientID := payload.PatientID
	if patientID == uuid.Nil {
		// Patient events carry the patient row itself.
		patientID = payload.ID
	}
	if patientID == uuid.Nil || payload.ClinicID == uuid.Nil {
		w.logger.Warn("event payload missing patient or clinic", "channel", channel)
		return
	}

	if err := w.assignComplianceForms(ctx, payload.ClinicID, payload.OrganizationID, patientID); err != nil {
		w.logger.Error(err, "failed to assign compliance forms",
			"channel", channel, "patient_id", patientID.String())
	}
}

func (w *ComplianceWorker) assignComplianceForms(ctx context.Context, clinicID, orgID, patientID uuid.UUID) error {
	forms, err := w.formRepo.ListComplianceForms(ctx, clinicID)
	if err != nil {
		return err
	}

	assignments, err := w.formRepo.ListAssignments(ctx, clinicID, patientID)
	if err != nil {
		return err
	}
	assigned := make(map[uuid.UUID]bool, len(assignments))
	for _, a := range assignments {
		assigned[a.FormID] = true
	}

	for _, def := range forms {
		if def.CurrentVersionID == nil {
			continue
		}
		// Skip forms the patient already has outstanding or completed.
		if assigned[def.ID] {
			continue
		}

		assignment := &model.FormAssignment{
			Base: model.Base{ID: uuid.New()},
			TenantScope: model.TenantScope{
				ClinicID:       clinicID,
				OrganizationID: orgID,
			},
			FormID:    def.ID,
			VersionID: *def.CurrentVersionID,
			PatientID: patientID,
			Status:    model.FormAssignmentStatusPending,
		}
		if err := w.formRepo.CreateAssignment(ctx, assignment); err != nil {
			w.logger.Error(err, "failed to create compliance assignment",
				"form_id", def.ID.String(), "patient_id", patientID.String())
			continue
		}

		w.logger.Info("assigned compliance form",
			"form_id", def.ID.String(), "patient_id", patientID.String())
	}

	return nil
}
