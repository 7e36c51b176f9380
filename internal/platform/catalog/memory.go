// Package catalog contains implementations of the flight/gate data store.
package catalog

import (
	"context"
	"sync"

	"github.com/Beastbaba/Gateguide/pkg/assist"
)

// MemoryCatalog is an in-memory assist.Catalog, used by the local entrypoint
// and tests. It serves copies, never its own slices.
type MemoryCatalog struct {
	mu      sync.RWMutex
	gates   []assist.GateLocation
	flights []assist.Flight
}

// NewMemoryCatalog creates a catalog holding the given records.
func NewMemoryCatalog(gates []assist.GateLocation, flights []assist.Flight) *MemoryCatalog {
	return &MemoryCatalog{gates: gates, flights: flights}
}

// NewSeededCatalog creates a catalog preloaded with the default airport data.
func NewSeededCatalog() *MemoryCatalog {
	return NewMemoryCatalog(DefaultGates(), DefaultFlights())
}

func (c *MemoryCatalog) Gates(_ context.Context) ([]assist.GateLocation, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]assist.GateLocation, len(c.gates))
	copy(out, c.gates)
	return out, nil
}

func (c *MemoryCatalog) Flights(_ context.Context) ([]assist.Flight, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]assist.Flight, len(c.flights))
	copy(out, c.flights)
	return out, nil
}

func (c *MemoryCatalog) FlightByNumber(_ context.Context, flightNumber string) (*assist.Flight, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, f := range c.flights {
		if f.FlightNumber == flightNumber {
			found := f
			return &found, nil
		}
	}
	return nil, assist.ErrNotFound
}

// DefaultGates returns the reference gate data of the original service.
func DefaultGates() []assist.GateLocation {
	return []assist.GateLocation{
		{GateID: "B14", Latitude: 28.5572, Longitude: 77.1010, Name: "Gate B14", Terminal: "Terminal 2"},
		{GateID: "C5", Latitude: 28.5552, Longitude: 77.0990, Name: "Gate C5", Terminal: "Terminal 2"},
		{GateID: "A1", Latitude: 28.5582, Longitude: 77.1020, Name: "Gate A1", Terminal: "Terminal 1"},
	}
}

// DefaultFlights returns the reference flight data of the original service.
func DefaultFlights() []assist.Flight {
	return []assist.Flight{
		{ID: "1", FlightNumber: "AI 202", Destination: "New York JFK", Gate: "B14", DepartureTime: "14:30", Status: assist.StatusOnTime, Terminal: "Terminal 2"},
		{ID: "2", FlightNumber: "BA 142", Destination: "London Heathrow", Gate: "C5", DepartureTime: "16:45", Status: assist.StatusBoarding, Terminal: "Terminal 2"},
		{ID: "3", FlightNumber: "EK 505", Destination: "Dubai", Gate: "A1", DepartureTime: "18:00", Status: assist.StatusDelayed, Terminal: "Terminal 1"},
	}
}
