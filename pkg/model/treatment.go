package model

// Treatment is a bookable clinical service. Slots is the fixed daily template;
// booking never mutates it.
type Treatment struct {
	ID    string   `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name  string   `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Price float64  `json:"price" bson:"price" validate:"required,gt=0"`
	Slots []string `json:"slots" bson:"slots" validate:"required,min=1,max=48,dive,min=1,max=20"`
	Image string   `json:"image,omitempty" bson:"image,omitempty" validate:"omitempty,url"`
}

// TreatmentAvailability is a treatment with its slot template reduced to the
// slots still open on a given date. Treatments with no open slots are kept,
// with an empty list.
type TreatmentAvailability struct {
	ID    string   `json:"id,omitempty" bson:"_id,omitempty"`
	Name  string   `json:"name" bson:"name"`
	Price float64  `json:"price" bson:"price"`
	Slots []string `json:"slots" bson:"slots"`
	Image string   `json:"image,omitempty" bson:"image,omitempty"`
}
