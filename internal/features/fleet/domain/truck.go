package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TruckStatus is the availability of a truck for new shipments.
type TruckStatus string

const (
	// TruckAvailable trucks can be assigned to a shipment.
	TruckAvailable TruckStatus = "AVAILABLE"
	// TruckUnavailable trucks are held by exactly one shipment.
	TruckUnavailable TruckStatus = "UNAVAILABLE"
)

// ErrInvalidFuelRate is returned when a truck's fuel consumption cannot be used for costing.
var ErrInvalidFuelRate = errors.New("invalid fuel consumption")

// TruckType is the vehicle class, e.g. "Blind Van" or "CDD Long".
type TruckType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Truck is a vehicle owned by a distribution center.
type Truck struct {
	ID                int64       `json:"id"`
	PlateNumber       string      `json:"plate_number"`
	FirstStatus       TruckStatus `json:"first_status"`
	SecondStatus      string      `json:"second_status"`
	TypeID            int64       `json:"type_id"`
	Type              *TruckType  `json:"truck_type,omitempty"`
	MaxCapacityVolume float64     `json:"max_individual_capacity_volume"`
	// FuelConsumption is stored as "label:value", e.g. "solar:8".
	FuelConsumption string `json:"fuel_consumption_liters_per_km"`
	DCID            int64  `json:"dc_id"`
}

// FuelRate parses the numeric part of FuelConsumption.
func (t Truck) FuelRate() (float64, error) {
	_, value, ok := strings.Cut(t.FuelConsumption, ":")
	if !ok {
		return 0, fmt.Errorf("%w: truck %d has %q", ErrInvalidFuelRate, t.ID, t.FuelConsumption)
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || rate <= 0 {
		return 0, fmt.Errorf("%w: truck %d has %q", ErrInvalidFuelRate, t.ID, t.FuelConsumption)
	}
	return rate, nil
}

// Cost is a named cost entry such as the fuel price per liter.
type Cost struct {
	ID    int64   `json:"id"`
	Name  string  `json:"cost_name"`
	Value float64 `json:"cost_value"`
}

// CostEstimate is the fuel and money spent on a route.
type CostEstimate struct {
	FuelLiters float64 `json:"fuel_total"`
	TotalCost  float64 `json:"shipment_cost"`
}

// EstimateCost derives the fuel used over distMeters and prices it with cost.
func EstimateCost(t Truck, distMeters float64, cost Cost) (CostEstimate, error) {
	rate, err := t.FuelRate()
	if err != nil {
		return CostEstimate{}, err
	}
	fuel := distMeters / 1000 / rate
	return CostEstimate{
		FuelLiters: fuel,
		TotalCost:  cost.Value * fuel,
	}, nil
}
