package models

// StopMonitoringResponse is the subset of a SIRI-lite stop monitoring
// document the tracker reads. Every other field of the feed is dropped
// while decoding.
type StopMonitoringResponse struct {
	Siri Siri `json:"Siri"`
}

// Siri a representation of the SIRI envelope
type Siri struct {
	ServiceDelivery ServiceDelivery `json:"ServiceDelivery"`
}

// ServiceDelivery a representation of a SIRI ServiceDelivery item
type ServiceDelivery struct {
	StopMonitoringDelivery []StopMonitoringDelivery `json:"StopMonitoringDelivery"`
}

// StopMonitoringDelivery a representation of a SIRI StopMonitoringDelivery item
type StopMonitoringDelivery struct {
	MonitoredStopVisit []MonitoredStopVisit `json:"MonitoredStopVisit"`
}

// MonitoredStopVisit a representation of a SIRI MonitoredStopVisit item
type MonitoredStopVisit struct {
	MonitoredVehicleJourney MonitoredVehicleJourney `json:"MonitoredVehicleJourney"`
}

// MonitoredVehicleJourney a representation of a SIRI MonitoredVehicleJourney item
type MonitoredVehicleJourney struct {
	LineRef         ValueRef      `json:"LineRef"`
	DestinationName []ValueRef    `json:"DestinationName"`
	MonitoredCall   MonitoredCall `json:"MonitoredCall"`
}

// MonitoredCall a representation of a SIRI MonitoredCall item
type MonitoredCall struct {
	ExpectedDepartureTime string `json:"ExpectedDepartureTime"`
	VehicleAtStop         bool   `json:"VehicleAtStop"`
}

// ValueRef wraps the {"value": "..."} objects SIRI-lite uses for references
type ValueRef struct {
	Value string `json:"value"`
}

// Visits returns the stop visits of the first delivery, or nil
func (r *StopMonitoringResponse) Visits() []MonitoredStopVisit {
	deliveries := r.Siri.ServiceDelivery.StopMonitoringDelivery
	if len(deliveries) == 0 {
		return nil
	}
	return deliveries[0].MonitoredStopVisit
}

// Destination returns the first destination name, or an empty string
func (j MonitoredVehicleJourney) Destination() string {
	if len(j.DestinationName) == 0 {
		return ""
	}
	return j.DestinationName[0].Value
}
