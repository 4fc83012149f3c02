package ports

import "time"

// Clock supplies the current time to the services.
type Clock func() time.Time
