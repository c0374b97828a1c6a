package delivery

// Person is a delivery rider on the roster.
type Person struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Image       string `json:"image,omitempty"`
	IsAvailable bool   `json:"isAvailable"`
}

// State is the persisted roster.
type State struct {
	Personnel []Person `json:"deliveryPersonnel"`
}

// PersonInput carries the fields of a new rider.
type PersonInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Phone       string `json:"phone" validate:"required,numeric,len=10"`
	Image       string `json:"image" validate:"omitempty,url"`
	IsAvailable *bool  `json:"isAvailable"`
}

// PersonUpdate merges into an existing rider; nil fields are left untouched.
type PersonUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,numeric,len=10"`
	Image       *string `json:"image" validate:"omitempty,url"`
	IsAvailable *bool   `json:"isAvailable"`
}

func seedRoster() State {
	return State{Personnel: []Person{
		{ID: "1", Name: "Rahul Kumar", Phone: "9876543210", Image: "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?q=80&w=1974&auto=format&fit=crop", IsAvailable: true},
		{ID: "2", Name: "Priya Singh", Phone: "9876543211", Image: "https://images.unsplash.com/photo-1494790108377-be9c29b29330?q=80&w=1974&auto=format&fit=crop", IsAvailable: true},
		{ID: "3", Name: "Amit Sharma", Phone: "9876543212", Image: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?q=80&w=1974&auto=format&fit=crop", IsAvailable: false},
	}}
}
