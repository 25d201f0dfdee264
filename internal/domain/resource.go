package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Model carries the fields every stored document shares. Resource types
// embed it inline so the storage `_id` renders to clients as `id` and the
// driver's metadata never leaks.
type Model struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Food is a dish entry. All three fields are required on create.
type Food struct {
	Model    `bson:",inline"`
	Title    string `bson:"title" json:"title" binding:"required"`
	Image    string `bson:"image" json:"image" binding:"required"`
	Category string `bson:"category" json:"category" binding:"required"`
}

// Shoe is a catalogue entry with no required fields.
type Shoe struct {
	Model    `bson:",inline"`
	Brand    string  `bson:"brand" json:"brand"`
	Color    string  `bson:"color" json:"color"`
	Laced    bool    `bson:"laced" json:"laced"`
	Material string  `bson:"material" json:"material"`
	Price    float64 `bson:"price" json:"price"`
}

// Cafe is a place entry with coordinates for map display.
type Cafe struct {
	Model     `bson:",inline"`
	Name      string  `bson:"name" json:"name"`
	Address   string  `bson:"address" json:"address"`
	Image     string  `bson:"image" json:"image"`
	Rating    float64 `bson:"rating" json:"rating"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Latitude  float64 `bson:"latitude" json:"latitude"`
}

// Category groups resources by name. Name is unique.
type Category struct {
	Model `bson:",inline"`
	Name  string `bson:"name" json:"name" binding:"required"`
}
