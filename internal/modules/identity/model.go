// README: Rider and driver identity records backing auth and ride population.
package identity

import (
	"time"

	"swiftride/internal/types"
)

type User struct {
	ID             types.ID  `json:"id"`
	Name           string    `json:"name"`
	PhoneNumber    string    `json:"phoneNumber,omitempty"`
	ProfilePicture string    `json:"profilePictureUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Driver struct {
	ID            types.ID  `json:"id"`
	Name          string    `json:"driverName"`
	VehicleModel  string    `json:"vehicleModel,omitempty"`
	VehicleNumber string    `json:"vehicleNumber,omitempty"`
	Rating        float64   `json:"rating"`
	ProfileImage  string    `json:"profileImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
