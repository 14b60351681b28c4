package utils

import "time"

// Now is the clock request handlers read. Tests swap it for a fixed time.
var Now = time.Now
