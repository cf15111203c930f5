package types

import (
	"time"
)

type ModelVersionStatus string

const (
	ModelVersionStatusRegistered ModelVersionStatus = "Registered"
	ModelVersionStatusArchived   ModelVersionStatus = "Archived"
)

type RegisterModelReq struct {
	Name        string            `json:"name" binding:"required"`
	JobName     string            `json:"job_name" binding:"required"`
	Description string            `json:"description"`
	Tags        map[string]string `json:"tags"`
}

type RegisteredModelRes struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	LatestVersion int       `json:"latest_version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ModelVersionRes struct {
	ModelName     string             `json:"model_name"`
	Version       int                `json:"version"`
	JobName       string             `json:"job_name"`
	Experiment    string             `json:"experiment"`
	Status        ModelVersionStatus `json:"status"`
	StoragePrefix string             `json:"storage_prefix"`
	Metric        string             `json:"metric,omitempty"`
	MetricValue   float64            `json:"metric_value,omitempty"`
	Tags          map[string]string  `json:"tags,omitempty"`
	SizeBytes     int64              `json:"size_bytes"`
	Size          string             `json:"size"`
	CreatedAt     time.Time          `json:"created_at"`
}

type ModelFileRes struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	// presigned GET url, valid for Model.PresignExpireInHours
	DownloadURL string `json:"download_url"`
}
