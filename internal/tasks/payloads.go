package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// This file defines the "types" and "payloads" for our async tasks.

// Task type names
const (
	TypeTaskSweepBlobs = "task:sweep_blobs"
)

// SweepBlobsPayload is the data a sweep job needs to run
type SweepBlobsPayload struct {
	GraceMinutes int `json:"grace_minutes"`
}

// NewSweepBlobsTask creates a new task for asynq
func NewSweepBlobsTask(graceMinutes int) (*asynq.Task, error) {
	payload := SweepBlobsPayload{
		GraceMinutes: graceMinutes,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TypeTaskSweepBlobs, payloadBytes), nil
}
