package project

import (
	"strings"
	"time"
)

// Status represents the lifecycle state of a project
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusClosed   Status = "CLOSED"
	StatusPlanning Status = "PLANNING"
)

// Project represents a budgeted activity (an event, a program year, a grant).
// ProjectCode is a composite code whose leading two underscore-delimited
// segments encode year and category, e.g. "2025_P_Sommerfest".
type Project struct {
	BookID      string  `json:"bookId" dynamodbav:"bookId"`
	ProjectID   string  `json:"projectId" dynamodbav:"projectId"`
	ProjectCode string  `json:"projectid" dynamodbav:"projectid"` // legacy field name kept for stored documents
	Name        string  `json:"name" dynamodbav:"name"`
	Budget      float64 `json:"budget" dynamodbav:"budget"`
	Status      Status  `json:"status" dynamodbav:"status"`

	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`

	// DynamoDB specific attributes
	PK string `json:"-" dynamodbav:"-"`
	SK string `json:"-" dynamodbav:"-"`
}

// CodeFragment returns the project code with its leading year and category
// segments stripped, the fragment tolerant matching searches for inside
// transaction project names. "2025_P_Sommerfest" yields "Sommerfest";
// codes with fewer than three segments yield "".
func (p *Project) CodeFragment() string {
	parts := strings.SplitN(p.ProjectCode, "_", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// CreateProjectRequest represents the request to create a new project
type CreateProjectRequest struct {
	ProjectCode string  `json:"projectid" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Budget      float64 `json:"budget"`
	Status      Status  `json:"status"`
}

// UpdateProjectRequest represents the request to update an existing project
type UpdateProjectRequest struct {
	Name   *string  `json:"name,omitempty"`
	Budget *float64 `json:"budget,omitempty"`
	Status *Status  `json:"status,omitempty"`
}
