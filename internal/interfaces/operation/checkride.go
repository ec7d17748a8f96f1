// Package operation
package operation

import (
	"errors"
	"time"
)

var (
	ErrSlotNotFound      = errors.New("availability slot does not exist")
	ErrCheckrideNotFound = errors.New("checkride does not exist")
	// ErrSlotTaken means the slot is no longer AVAILABLE.
	ErrSlotTaken = errors.New("availability slot not available")
	// ErrNotReady means the training is not flagged ready for checkride.
	ErrNotReady = errors.New("training not ready for checkride")
	// ErrCheckrideBooked means a checkride already exists for the training.
	ErrCheckrideBooked = errors.New("checkride already booked")
	// ErrCheckridePassed blocks rebooking after a passed checkride.
	ErrCheckridePassed = errors.New("checkride already passed")
	// ErrCheckrideSettled blocks cancelling a non-INCOMPLETE checkride.
	ErrCheckrideSettled = errors.New("checkride result already settled")
)

// Maintenance windows for PurgeStale.
const (
	StaleSlotAge      = 8 * time.Hour
	StaleCheckrideAge = 48 * time.Hour
)

type CheckrideOperationInterface interface {
	// CreateAvailability persists an examiner slot; EndTime is fixed to
	// StartTime plus AvailabilitySlotDuration.
	CreateAvailability(examinerID uint, startTime time.Time) (slot *CheckrideAvailability, err error)
	// GetAvailabilityByID fetches one slot.
	GetAvailabilityByID(id uint) (slot *CheckrideAvailability, err error)
	// GetAvailabilities lists slots, optionally narrowed to one examiner
	// (examinerID 0 means all).
	GetAvailabilities(examinerID uint) (slots []*CheckrideAvailability, err error)
	// DeleteAvailability removes an unbooked slot.
	DeleteAvailability(id uint) (err error)
	// BookCheckride performs the whole booking transition in one locking
	// transaction: training must be ready, must not own a checkride or a
	// passed one already, slot must be AVAILABLE; creates the draft
	// checkride and flips the slot to BOOKED.
	BookCheckride(trainingID, traineeID, availabilityID uint) (checkride *Checkride, err error)
	// GetCheckrideByID fetches a checkride with slot and assessment.
	GetCheckrideByID(id uint) (checkride *Checkride, err error)
	// GetCheckrideByTraining fetches the training's checkride, if any.
	GetCheckrideByTraining(trainingID uint) (checkride *Checkride, err error)
	// GetCheckrides lists checkrides, optionally narrowed to the slots of
	// one examiner (examinerID 0 means all).
	GetCheckrides(examinerID uint) (checkrides []*Checkride, err error)
	// HasPlannedCheckride reports whether an undischarged checkride on
	// this training sits in one of the examiner's slots.
	HasPlannedCheckride(trainingID, examinerID uint) (planned bool, err error)
	// SaveAssessment upserts the assessment and mirrors its overall
	// result onto the checkride row.
	SaveAssessment(checkrideID uint, assessment *CheckrideAssessment) (err error)
	// SetReleased flips the draft flag. Releasing stamps ReleasedAt;
	// un-releasing clears it.
	SetReleased(checkrideID uint, released bool) (checkride *Checkride, err error)
	// CancelCheckride deletes an INCOMPLETE checkride and returns its
	// slot to AVAILABLE in one transaction.
	CancelCheckride(checkrideID uint) (err error)
	// PurgeStale is the idempotent maintenance sweep: releases-and-drops
	// INCOMPLETE draft checkrides whose slot lies further than
	// StaleCheckrideAge in the past, and deletes AVAILABLE slots older
	// than StaleSlotAge. Safe to call from any read path or a scheduler.
	PurgeStale(now time.Time) (purgedCheckrides, purgedSlots int64, err error)
}
