package dto

import "time"

// CreateWorkerRequestRequest solicitud de un dueño para dar de alta a un cajero.
type CreateWorkerRequestRequest struct {
	WorkerFullName string `json:"worker_full_name" validate:"required,max=200"`
	WorkerEmail    string `json:"worker_email" validate:"required,email"`
	TempPassword   string `json:"worker_temp_password" validate:"required,min=6"`
}

// WorkerRequestResponse salida de una solicitud; nunca expone la contraseña.
type WorkerRequestResponse struct {
	ID             string    `json:"id"`
	JefeID         string    `json:"jefe_id"`
	WorkerFullName string    `json:"worker_full_name"`
	WorkerEmail    string    `json:"worker_email"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateWorkerFunctionRequest cuerpo de POST /functions/v1/create-worker.
type CreateWorkerFunctionRequest struct {
	RequestID          string `json:"request_id"`
	WorkerEmail        string `json:"worker_email"`
	WorkerTempPassword string `json:"worker_temp_password"`
	WorkerFullName     string `json:"worker_full_name"`
	JefeID             string `json:"jefe_id"`
}

// DeleteUserFunctionRequest cuerpo de POST /functions/v1/delete-user-and-data.
type DeleteUserFunctionRequest struct {
	UserID string `json:"user_id"`
}
