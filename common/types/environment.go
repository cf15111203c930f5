package types

type EnvironmentBuildStatus string

const (
	BuildStatusPending   EnvironmentBuildStatus = "Pending"
	BuildStatusBuilding  EnvironmentBuildStatus = "Building"
	BuildStatusSucceeded EnvironmentBuildStatus = "Succeeded"
	BuildStatusFailed    EnvironmentBuildStatus = "Failed"
	BuildStatusStopped   EnvironmentBuildStatus = "Stopped"
)

type EnvironmentReq struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Dockerfile  string            `json:"dockerfile" binding:"required"`
	BuildArgs   map[string]string `json:"build_args,omitempty"`
}

type EnvironmentRes struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	LatestVersion int    `json:"latest_version"`
	// image of the newest succeeded build, empty until one exists
	Image     string `json:"image"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// EnvironmentBuildReq is what the api server sends the runner.
type EnvironmentBuildReq struct {
	BuildID         string            `json:"build_id" binding:"required"`
	EnvironmentName string            `json:"environment_name" binding:"required"`
	Version         int               `json:"version" binding:"required"`
	Dockerfile      string            `json:"dockerfile" binding:"required"`
	BuildArgs       map[string]string `json:"build_args,omitempty"`
	PoolID          string            `json:"pool_id"`
}

// EnvironmentBuildEvent is pushed back from the runner on status changes.
type EnvironmentBuildEvent struct {
	BuildID string                 `json:"build_id"`
	Status  EnvironmentBuildStatus `json:"status"`
	Message string                 `json:"message,omitempty"`
	Image   string                 `json:"image,omitempty"`
}

type EnvironmentBuildRes struct {
	ID              int64                  `json:"id"`
	BuildID         string                 `json:"build_id"`
	EnvironmentName string                 `json:"environment_name"`
	Version         int                    `json:"version"`
	Image           string                 `json:"image"`
	Status          EnvironmentBuildStatus `json:"status"`
	Message         string                 `json:"message"`
	CreatedAt       string                 `json:"created_at"`
	UpdatedAt       string                 `json:"updated_at"`
}

type EnvironmentBuildStopReq struct {
	BuildID string `json:"build_id"`
	PoolID  string `json:"pool_id"`
}

type EnvironmentBuildResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
