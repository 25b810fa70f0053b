package entity

import "time"

// WorkerRequestStatus estado de una solicitud de cajero.
type WorkerRequestStatus string

// pending es el único estado no terminal.
const (
	WorkerRequestPending  WorkerRequestStatus = "pending"
	WorkerRequestApproved WorkerRequestStatus = "approved"
	WorkerRequestRejected WorkerRequestStatus = "rejected"
)

// WorkerRequest solicitud de un dueño (jefe) para crear una cuenta de cajero.
type WorkerRequest struct {
	ID                 string
	JefeID             string
	WorkerFullName     string
	WorkerEmail        string
	WorkerPasswordHash string
	Status             WorkerRequestStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsPending indica si la solicitud aún puede aprobarse o rechazarse.
func (w *WorkerRequest) IsPending() bool { return w.Status == WorkerRequestPending }
