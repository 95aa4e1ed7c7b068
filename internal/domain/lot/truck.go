package lot

// Truck is a vehicle parked at the lot. CustomerID is nil for trucks whose
// owner was deleted.
type Truck struct {
	ID         int64
	CustomerID *int64
	Plate      string
	State      *string
	Make       *string
	Model      *string
	Notes      *string
	CreatedAt  string
}

// TruckInput carries raw truck fields.
type TruckInput struct {
	CustomerID *int64
	Plate      string
	State      string
	Make       string
	Model      string
	Notes      string
}

// NewTruck validates input and builds a truck ready to insert.
func NewTruck(in TruckInput) (*Truck, error) {
	plate, err := RequiredPlate(in.Plate)
	if err != nil {
		return nil, err
	}
	state, err := OptionalState(in.State)
	if err != nil {
		return nil, err
	}
	mk, err := OptionalText("Make", in.Make, MaxMakeModelLen)
	if err != nil {
		return nil, err
	}
	model, err := OptionalText("Model", in.Model, MaxMakeModelLen)
	if err != nil {
		return nil, err
	}
	notes, err := OptionalText("Notes", in.Notes, MaxNotesLen)
	if err != nil {
		return nil, err
	}

	return &Truck{
		CustomerID: in.CustomerID,
		Plate:      plate,
		State:      state,
		Make:       mk,
		Model:      model,
		Notes:      notes,
	}, nil
}

// Label is the plate followed by the state when known.
func (t *Truck) Label() string {
	if t.State == nil {
		return t.Plate
	}
	return t.Plate + " " + *t.State
}
