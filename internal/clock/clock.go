package clock

import "time"

// NowFunc supplies the current time. Tests override it to pin receipt and
// event timestamps.
var NowFunc = time.Now

// Now returns the engine's notion of the current time.
func Now() time.Time { return NowFunc() }
