package enums

import "fmt"

// MaintenanceStatus describes the service condition of a vehicle.
type MaintenanceStatus string

const (
	MaintenanceStatusGood         MaintenanceStatus = "good"
	MaintenanceStatusNeedsService MaintenanceStatus = "needs_service"
	MaintenanceStatusInService    MaintenanceStatus = "in_service"
	MaintenanceStatusOutOfService MaintenanceStatus = "out_of_service"
)

var validMaintenanceStatuses = []MaintenanceStatus{
	MaintenanceStatusGood,
	MaintenanceStatusNeedsService,
	MaintenanceStatusInService,
	MaintenanceStatusOutOfService,
}

// String implements fmt.Stringer.
func (m MaintenanceStatus) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MaintenanceStatus.
func (m MaintenanceStatus) IsValid() bool {
	for _, candidate := range validMaintenanceStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMaintenanceStatus converts raw input into a MaintenanceStatus.
func ParseMaintenanceStatus(value string) (MaintenanceStatus, error) {
	for _, candidate := range validMaintenanceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid maintenance status %q", value)
}
