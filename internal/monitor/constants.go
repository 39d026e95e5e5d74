package monitor

import "time"

const (
	defaultRefreshInterval = 5 * time.Second
	defaultWidth           = 80
	columnGap              = 2
	minFlexWidth           = 8
)
