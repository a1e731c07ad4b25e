package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fabrikasoft/fabrika-api/internal/flow"
	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// PackFlowService is the transition orchestrator: the three state machine
// operations that move a pack through the department chain. Every operation
// commits as one transaction through the flow store; the pack row lock taken
// inside serializes concurrent operations on the same pack.
type PackFlowService struct {
	store flow.Store
}

// NewPackFlowService constructs a PackFlowService.
func NewPackFlowService(store flow.Store) *PackFlowService {
	return &PackFlowService{store: store}
}

// IntakeInput creates a fresh lineage root at a department.
type IntakeInput struct {
	DepartmentID  uuid.UUID
	ProductID     uuid.UUID
	EmployeeID    uuid.UUID
	TotalCount    int64
	InvalidCount  int64
	InvalidReason string
}

// SendInput dispatches a sub-quantity of a pack to another department.
type SendInput struct {
	SourcePackID       uuid.UUID
	TargetDepartmentID uuid.UUID
	EmployeeID         uuid.UUID
	SendCount          int64
	InvalidCount       int64
	InvalidReason      string
	OutsourceCompanyID *uuid.UUID
}

// SendOutcome is what a committed send leaves behind: the source-side process
// row and the child pack waiting at the target department.
type SendOutcome struct {
	SourceProcess *models.ProductProcess `json:"sourceProcess"`
	NewPack       *models.ProductPack    `json:"newPack"`
}

// AcceptInput confirms a pending delivery at the receiving department.
type AcceptInput struct {
	PackID        uuid.UUID
	EmployeeID    uuid.UUID
	InvalidCount  int64
	InvalidReason string
}

// AcceptOutcome reports the acceptance record and whether the pack reached
// the terminal department.
type AcceptOutcome struct {
	Process    *models.ProductProcess `json:"process"`
	IsComplete bool                   `json:"isComplete"`
}

// inTx commits fn through the store, retrying once when the database reports
// a serialization or deadlock conflict. Everything else surfaces unchanged.
func (s *PackFlowService) inTx(ctx context.Context, fn func(flow.Tx) error) error {
	err := s.store.InTx(ctx, fn)
	if errors.Is(err, utils.ErrConflict) {
		log.Warn().Err(err).Msg("flow transaction conflict, retrying once")
		err = s.store.InTx(ctx, fn)
	}
	return err
}

// Intake creates a new pack and its initial accepted process in one
// transaction. The pack becomes its own lineage root.
func (s *PackFlowService) Intake(ctx context.Context, in IntakeInput) (*models.ProductPack, error) {
	if in.TotalCount <= 0 {
		return nil, flow.ErrNegativeCount
	}
	acceptCount, err := flow.ComputeAccept(in.TotalCount, in.InvalidCount)
	if err != nil {
		return nil, err
	}

	dept, err := s.store.GetDepartment(ctx, in.DepartmentID)
	if err != nil {
		return nil, err
	}
	if _, err := flow.Normalize(dept.Name); err != nil {
		return nil, err
	}
	if _, err := s.store.GetProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetEmployee(ctx, in.EmployeeID); err != nil {
		return nil, err
	}

	pack := &models.ProductPack{
		ID:             uuid.New(),
		ProductID:      in.ProductID,
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		TotalCount:     in.TotalCount,
	}
	proc := &models.ProductProcess{
		ID:            uuid.New(),
		PackID:        pack.ID,
		Status:        models.ProcessAccepted,
		DepartmentID:  dept.ID,
		EmployeeID:    in.EmployeeID,
		AcceptCount:   acceptCount,
		InvalidCount:  in.InvalidCount,
		ResidueCount:  acceptCount,
		InvalidReason: in.InvalidReason,
	}

	err = s.inTx(ctx, func(tx flow.Tx) error {
		if err := tx.CreatePack(ctx, pack); err != nil {
			return err
		}
		return tx.CreateProcess(ctx, proc)
	})
	if err != nil {
		return nil, err
	}

	pack.LatestProcessID = &proc.ID
	pack.Processes = []models.ProductProcess{*proc}

	log.Info().
		Str("packId", pack.ID.String()).
		Str("department", dept.Name).
		Int64("totalCount", in.TotalCount).
		Int64("acceptCount", acceptCount).
		Msg("pack intake committed")
	return pack, nil
}

// Send dispatches units from a source pack to a target department. The source
// gets a new process row with the updated cumulative residue; a child pack is
// created at the target with a single Pending process. All of it commits
// together or not at all.
func (s *PackFlowService) Send(ctx context.Context, in SendInput) (*SendOutcome, error) {
	if in.SendCount <= 0 {
		return nil, flow.ErrNegativeCount
	}

	target, err := s.store.GetDepartment(ctx, in.TargetDepartmentID)
	if err != nil {
		return nil, err
	}
	employee, err := s.store.GetEmployee(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if in.OutsourceCompanyID != nil {
		if _, err := s.store.GetCompany(ctx, *in.OutsourceCompanyID); err != nil {
			return nil, err
		}
	}

	var outcome SendOutcome
	err = s.inTx(ctx, func(tx flow.Tx) error {
		src, err := tx.GetPackForUpdate(ctx, in.SourcePackID)
		if err != nil {
			return err
		}
		if src.ProcessIsOver {
			return utils.ErrPackClosed
		}

		pending, err := tx.HasPendingProcess(ctx, src.ID)
		if err != nil {
			return err
		}
		if pending {
			return utils.ErrPendingUnresolved
		}

		ok, err := flow.CanTransition(src.DepartmentName, target.Name)
		if err != nil {
			return err
		}
		if !ok {
			return utils.ErrIllegalTransition
		}

		cumSent, cumInvalid, err := tx.CumulativeCounts(ctx, src.ID)
		if err != nil {
			return err
		}
		result, err := flow.ComputeSend(src.TotalCount, cumSent, cumInvalid, in.SendCount, in.InvalidCount)
		if err != nil {
			return err
		}

		srcName := src.DepartmentName
		targetName := target.Name

		srcProc := &models.ProductProcess{
			ID:                   uuid.New(),
			PackID:               src.ID,
			Status:               models.ProcessStatus(result.Status),
			DepartmentID:         src.DepartmentID,
			EmployeeID:           employee.ID,
			SentCount:            in.SendCount,
			InvalidCount:         in.InvalidCount,
			ResidueCount:         result.Residue,
			InvalidReason:        in.InvalidReason,
			SenderDepartmentID:   &src.DepartmentID,
			SenderDepartment:     &srcName,
			ReceiverDepartmentID: &target.ID,
			ReceiverDepartment:   &targetName,
			OutsourceCompanyID:   in.OutsourceCompanyID,
			IsOutsourced:         in.OutsourceCompanyID != nil,
			ProcessIsOver:        result.IsComplete,
		}
		if err := tx.CreateProcess(ctx, srcProc); err != nil {
			return err
		}
		if result.IsComplete {
			if err := tx.MarkPackOver(ctx, src.ID, true); err != nil {
				return err
			}
		}

		rootID := src.RootID()
		child := &models.ProductPack{
			ID:             uuid.New(),
			ParentID:       &rootID,
			ProductID:      src.ProductID,
			DepartmentID:   target.ID,
			DepartmentName: target.Name,
			TotalCount:     in.SendCount,
		}
		if err := tx.CreatePack(ctx, child); err != nil {
			return err
		}

		pendingProc := &models.ProductProcess{
			ID:                   uuid.New(),
			PackID:               child.ID,
			Status:               models.ProcessPending,
			DepartmentID:         target.ID,
			EmployeeID:           employee.ID,
			SentCount:            in.SendCount,
			ResidueCount:         in.SendCount,
			SenderDepartmentID:   &src.DepartmentID,
			SenderDepartment:     &srcName,
			ReceiverDepartmentID: &target.ID,
			ReceiverDepartment:   &targetName,
			OutsourceCompanyID:   in.OutsourceCompanyID,
			IsOutsourced:         in.OutsourceCompanyID != nil,
		}
		if err := tx.CreateProcess(ctx, pendingProc); err != nil {
			return err
		}

		child.LatestProcessID = &pendingProc.ID
		outcome = SendOutcome{SourceProcess: srcProc, NewPack: child}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("sourcePackId", in.SourcePackID.String()).
		Str("newPackId", outcome.NewPack.ID.String()).
		Str("targetDepartment", target.Name).
		Int64("sendCount", in.SendCount).
		Int64("residue", outcome.SourceProcess.ResidueCount).
		Msg("pack send committed")
	return &outcome, nil
}

// Accept consumes the pack's Pending process and replaces it with an accepted
// record. Deleting the Pending row inside the same transaction is what makes
// a concurrent second accept lose with ErrNoPendingProcess instead of
// double-applying.
func (s *PackFlowService) Accept(ctx context.Context, in AcceptInput) (*AcceptOutcome, error) {
	employee, err := s.store.GetEmployee(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	var outcome AcceptOutcome
	err = s.inTx(ctx, func(tx flow.Tx) error {
		pack, err := tx.GetPackForUpdate(ctx, in.PackID)
		if err != nil {
			return err
		}

		deleted, err := tx.DeletePendingProcess(ctx, pack.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return utils.ErrNoPendingProcess
		}

		acceptCount, err := flow.ComputeAccept(pack.TotalCount, in.InvalidCount)
		if err != nil {
			return err
		}
		terminal, err := flow.IsTerminal(pack.DepartmentName)
		if err != nil {
			return err
		}

		proc := &models.ProductProcess{
			ID:            uuid.New(),
			PackID:        pack.ID,
			Status:        models.ProcessAccepted,
			DepartmentID:  pack.DepartmentID,
			EmployeeID:    employee.ID,
			AcceptCount:   acceptCount,
			InvalidCount:  in.InvalidCount,
			InvalidReason: in.InvalidReason,
			ProcessIsOver: terminal,
		}
		if err := tx.CreateProcess(ctx, proc); err != nil {
			return err
		}
		if terminal {
			if err := tx.MarkPackOver(ctx, pack.ID, true); err != nil {
				return err
			}
		}

		outcome = AcceptOutcome{Process: proc, IsComplete: terminal}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("packId", in.PackID.String()).
		Int64("acceptCount", outcome.Process.AcceptCount).
		Bool("isComplete", outcome.IsComplete).
		Msg("pack accept committed")
	return &outcome, nil
}
