package catalog

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Beastbaba/Gateguide/pkg/assist"
)

const (
	gatesCollection   = "gates"
	flightsCollection = "flights"
)

// gateDoc is the Firestore document shape for a gate record.
type gateDoc struct {
	GateID    string  `firestore:"gate_id"`
	Latitude  float64 `firestore:"latitude"`
	Longitude float64 `firestore:"longitude"`
	Name      string  `firestore:"name"`
	Terminal  string  `firestore:"terminal,omitempty"`
}

// flightDoc is the Firestore document shape for a flight record.
type flightDoc struct {
	FlightNumber  string `firestore:"flight_number"`
	Destination   string `firestore:"destination"`
	Gate          string `firestore:"gate"`
	DepartureTime string `firestore:"departure_time"`
	Status        string `firestore:"status"`
	Terminal      string `firestore:"terminal,omitempty"`
}

// FirestoreCatalog implements assist.Catalog against Google Cloud Firestore.
type FirestoreCatalog struct {
	client *firestore.Client
	logger zerolog.Logger
}

// NewFirestoreCatalog is the constructor for the FirestoreCatalog.
func NewFirestoreCatalog(client *firestore.Client, logger zerolog.Logger) (*FirestoreCatalog, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client cannot be nil")
	}
	return &FirestoreCatalog{
		client: client,
		logger: logger.With().Str("component", "FirestoreCatalog").Logger(),
	}, nil
}

// Gates fetches all gate records.
func (s *FirestoreCatalog) Gates(ctx context.Context) ([]assist.GateLocation, error) {
	docSnaps, err := s.client.Collection(gatesCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve gates: %w", provErr(err))
	}

	gates := make([]assist.GateLocation, 0, len(docSnaps))
	for _, doc := range docSnaps {
		var gd gateDoc
		if err := doc.DataTo(&gd); err != nil {
			s.logger.Error().Err(err).Str("doc_id", doc.Ref.ID).Msg("Failed to unmarshal gate document, skipping")
			continue
		}
		gates = append(gates, assist.GateLocation{
			GateID:    gd.GateID,
			Latitude:  gd.Latitude,
			Longitude: gd.Longitude,
			Name:      gd.Name,
			Terminal:  gd.Terminal,
		})
	}
	return gates, nil
}

// Flights fetches all flight records, ordered by departure time.
func (s *FirestoreCatalog) Flights(ctx context.Context) ([]assist.Flight, error) {
	query := s.client.Collection(flightsCollection).OrderBy("departure_time", firestore.Asc)
	docSnaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve flights: %w", provErr(err))
	}

	flights := make([]assist.Flight, 0, len(docSnaps))
	for _, doc := range docSnaps {
		flight, err := flightFromDoc(doc)
		if err != nil {
			s.logger.Error().Err(err).Str("doc_id", doc.Ref.ID).Msg("Failed to unmarshal flight document, skipping")
			continue
		}
		flights = append(flights, *flight)
	}
	return flights, nil
}

// FlightByNumber fetches a single flight record, or assist.ErrNotFound.
func (s *FirestoreCatalog) FlightByNumber(ctx context.Context, flightNumber string) (*assist.Flight, error) {
	query := s.client.Collection(flightsCollection).
		Where("flight_number", "==", flightNumber).Limit(1)

	docSnaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, assist.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up flight %q: %w", flightNumber, provErr(err))
	}
	if len(docSnaps) == 0 {
		return nil, assist.ErrNotFound
	}

	flight, err := flightFromDoc(docSnaps[0])
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal flight %q: %w", flightNumber, err)
	}
	return flight, nil
}

func flightFromDoc(doc *firestore.DocumentSnapshot) (*assist.Flight, error) {
	var fd flightDoc
	if err := doc.DataTo(&fd); err != nil {
		return nil, err
	}
	return &assist.Flight{
		ID:            doc.Ref.ID,
		FlightNumber:  fd.FlightNumber,
		Destination:   fd.Destination,
		Gate:          fd.Gate,
		DepartureTime: fd.DepartureTime,
		Status:        assist.FlightStatus(fd.Status),
		Terminal:      fd.Terminal,
	}, nil
}

// provErr tags a store failure so the façade surfaces it as a provider
// outage rather than a client error.
func provErr(err error) error {
	return fmt.Errorf("%w: %v", assist.ErrProviderUnavailable, err)
}
