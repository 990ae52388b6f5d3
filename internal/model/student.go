package model

import "time"

// Student is a registered student account.
type Student struct {
	ID             int       `json:"id"`
	Matric         string    `json:"matric"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"`
	TotalCredit    int       `json:"total_credit"`
	MinimumReached bool      `json:"minimum_reached"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RegisterStudentRequest is the payload for creating a student account.
type RegisterStudentRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=100"`
	Matric   string `json:"matric" binding:"required,matric"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// StudentLoginRequest is the payload for student authentication.
type StudentLoginRequest struct {
	Matric   string `json:"matric" binding:"required,min=4,max=20"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// StudentLoginResponse is returned after successful student login.
type StudentLoginResponse struct {
	Token   string  `json:"token"`
	Student Student `json:"student"`
}
