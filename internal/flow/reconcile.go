package flow

import (
	"errors"
	"math"
)

// Reconciliation errors. These are permanent rejections of the request,
// never retried.
var (
	ErrNegativeCount         = errors.New("NEGATIVE_COUNT")
	ErrInvalidExceedsTotal   = errors.New("INVALID_COUNT_EXCEEDS_TOTAL")
	ErrInsufficientAvailable = errors.New("INSUFFICIENT_AVAILABLE_UNITS")
)

// SendStatus classifies a send operation by whether it exhausted the pack.
type SendStatus string

const (
	StatusPartiallySent SendStatus = "To'liq yuborilmagan"
	StatusFullySent     SendStatus = "Yuborilgan"
)

// SendResult holds the cumulative totals after a send operation.
type SendResult struct {
	NewSent    int64
	NewInvalid int64
	Residue    int64
	IsComplete bool
	Status     SendStatus
}

// ComputeAccept derives the accepted unit count for an intake or acceptance:
// every unit not rejected as invalid is accepted in full.
func ComputeAccept(totalCount, invalidCount int64) (int64, error) {
	if totalCount < 0 || invalidCount < 0 {
		return 0, ErrNegativeCount
	}
	if invalidCount > totalCount {
		return 0, ErrInvalidExceedsTotal
	}
	return totalCount - invalidCount, nil
}

// ComputeSend validates a dispatch against the pack's cumulative history and
// returns the new cumulative totals. Pure; the caller commits the result.
func ComputeSend(totalCount, cumSent, cumInvalid, reqSend, reqInvalid int64) (SendResult, error) {
	if totalCount < 0 || cumSent < 0 || cumInvalid < 0 || reqSend < 0 || reqInvalid < 0 {
		return SendResult{}, ErrNegativeCount
	}
	// cumSent and cumInvalid are each bounded by totalCount in any valid
	// history; a sum that wraps means the history is already over-committed.
	if cumSent > math.MaxInt64-cumInvalid {
		return SendResult{}, ErrInsufficientAvailable
	}
	available := totalCount - (cumSent + cumInvalid)
	if available < 0 {
		return SendResult{}, ErrInsufficientAvailable
	}
	// Compared piecewise against available so reqSend+reqInvalid cannot wrap.
	if reqInvalid > available || reqSend > available-reqInvalid {
		return SendResult{}, ErrInsufficientAvailable
	}

	newSent := cumSent + reqSend
	newInvalid := cumInvalid + reqInvalid
	residue := totalCount - newSent - newInvalid

	res := SendResult{
		NewSent:    newSent,
		NewInvalid: newInvalid,
		Residue:    residue,
		IsComplete: residue == 0,
	}
	if res.IsComplete {
		res.Status = StatusFullySent
	} else {
		res.Status = StatusPartiallySent
	}
	return res, nil
}
