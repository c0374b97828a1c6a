package instance

import "github.com/angelmondragon/dryfruit-backend/pkg/env"

// GetID returns the process identifier used in startup logs.
// Heroku's DYNO wins over the container hostname.
func GetID() string {
	return env.FirstOf("local", "DYNO", "HOSTNAME")
}
