package repo

import (
	"context"
	"errors"
	"fmt"
	"wardflow/internal/appers"
	"wardflow/internal/application/entity"
	"wardflow/internal/application/lifecycle"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
)

func (r *RepoImpl) CreateAssignment(ctx context.Context, a *entity.CallingAssignment) error {
	r.logger.Debugf("[assignment: %s] start inserting into DB", a.ID)

	err := r.db.QueryRow(ctx, insertAssignmentQuery,
		a.ID, a.TenantID, a.MemberName, a.PositionName, a.CurrentStage,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		r.logger.Errorf("[assignment: %s] error inserting into DB: %v", a.ID, err)
		return fmt.Errorf("insert calling_assignment: %w", err)
	}
	a.Active = true
	return nil
}

func (r *RepoImpl) GetAssignment(ctx context.Context, tenantID, id uuid.UUID) (*entity.CallingAssignment, error) {
	return r.scanAssignment(ctx, getAssignmentQuery, tenantID, id)
}

// LockAssignment читает назначение под FOR UPDATE, вызывать только внутри транзакции
func (r *RepoImpl) LockAssignment(ctx context.Context, tenantID, id uuid.UUID) (*entity.CallingAssignment, error) {
	return r.scanAssignment(ctx, lockAssignmentQuery, tenantID, id)
}

func (r *RepoImpl) scanAssignment(ctx context.Context, query string, tenantID, id uuid.UUID) (*entity.CallingAssignment, error) {
	var a entity.CallingAssignment
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&a.ID, &a.TenantID, &a.MemberName, &a.PositionName, &a.CurrentStage, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	switch {
	case err == nil:
		return &a, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, appers.ErrAssignmentNotFound
	default:
		return nil, fmt.Errorf("select calling_assignment: %w", err)
	}
}

func (r *RepoImpl) CurrentStage(ctx context.Context, tenantID, id uuid.UUID) (lifecycle.Stage, error) {
	a, err := r.LockAssignment(ctx, tenantID, id)
	if err != nil {
		return "", err
	}
	return a.CurrentStage, nil
}

// AppendTransition проверяет ожидаемую стадию и правила под блокировкой строки назначения,
// пишет запись журнала и обновляет current_stage. Должен выполняться в транзакции.
func (r *RepoImpl) AppendTransition(ctx context.Context, tenantID, id uuid.UUID, from, to lifecycle.Stage, in entity.TransitionInput) (entity.TransitionOutcome, error) {
	current, err := r.CurrentStage(ctx, tenantID, id)
	if err != nil {
		return entity.TransitionOutcome{}, err
	}

	if current != from {
		r.logger.Infof("[assignment: %s] stale stage: expected %s, actual %s", id, from, current)
		return entity.TransitionOutcome{Reason: entity.RejectStaleStage, Current: current}, nil
	}
	if !lifecycle.CanTransition(from, to) {
		r.logger.Infof("[assignment: %s] transition %s -> %s rejected", id, from, to)
		return entity.TransitionOutcome{Reason: entity.RejectInvalidTransition, Current: current}, nil
	}

	rec := &entity.CallingTransition{
		AssignmentID: id,
		TenantID:     tenantID,
		Stage:        to,
		MeetingID:    in.MeetingID,
		Instruction:  in.Instruction,
	}
	if err := r.InsertTransition(ctx, rec); err != nil {
		return entity.TransitionOutcome{}, err
	}

	if _, err := r.db.Exec(ctx, updateCurrentStageQuery, tenantID, id, to, !lifecycle.IsTerminal(to)); err != nil {
		return entity.TransitionOutcome{}, fmt.Errorf("update current_stage: %w", err)
	}

	r.logger.Debugf("[assignment: %s] stage %s -> %s recorded (transition %d)", id, from, to, rec.ID)
	return entity.TransitionOutcome{Accepted: true, Current: to, Record: rec}, nil
}

func (r *RepoImpl) InsertTransition(ctx context.Context, t *entity.CallingTransition) error {
	err := r.db.QueryRow(ctx, insertTransitionQuery,
		t.AssignmentID, t.TenantID, t.Stage, t.MeetingID, t.Instruction,
	).Scan(&t.ID, &t.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert calling_transition: %w", err)
	}
	return nil
}

func (r *RepoImpl) ListTransitions(ctx context.Context, tenantID, id uuid.UUID) ([]entity.CallingTransition, error) {
	rows, err := r.db.Query(ctx, listTransitionsQuery, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("select calling_transitions: %w", err)
	}
	defer rows.Close()

	res := make([]entity.CallingTransition, 0)
	for rows.Next() {
		var t entity.CallingTransition
		if err := rows.Scan(&t.ID, &t.AssignmentID, &t.TenantID, &t.Stage, &t.MeetingID, &t.Instruction, &t.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan calling_transition: %w", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("calling_transitions rows err: %w", err)
	}
	return res, nil
}
