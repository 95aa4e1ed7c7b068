package lot

// Customer is a person or company renting parking space.
type Customer struct {
	ID        int64
	Name      string
	Phone     *string
	Company   *string
	Notes     *string
	CreatedAt string
}

// CustomerInput carries raw customer fields from a form or request.
type CustomerInput struct {
	Name    string
	Phone   string
	Company string
	Notes   string
}

// NewCustomer validates input and builds a customer ready to insert.
func NewCustomer(in CustomerInput) (*Customer, error) {
	c := &Customer{}
	if err := c.apply(in); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields after validating them.
func (c *Customer) Update(in CustomerInput) error {
	return c.apply(in)
}

func (c *Customer) apply(in CustomerInput) error {
	name, err := RequiredText("Name", in.Name, MaxNameLen)
	if err != nil {
		return err
	}
	phone, err := OptionalPhone(in.Phone)
	if err != nil {
		return err
	}
	company, err := OptionalText("Company", in.Company, MaxCompanyLen)
	if err != nil {
		return err
	}
	notes, err := OptionalText("Notes", in.Notes, MaxNotesLen)
	if err != nil {
		return err
	}

	c.Name = name
	c.Phone = phone
	c.Company = company
	c.Notes = notes
	return nil
}
