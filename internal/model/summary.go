package model

import "time"

// SeedSummary captures metrics from a single fixture load.
type SeedSummary struct {
	FilePath      string
	FileSHA256    string
	RowsRead      int64
	RowsRejected  int64
	Hospitals     int64
	Providers     int64
	Plans         int64
	ServiceCodes  int64
	ChargesCopied int64
	DurationScan  time.Duration
	DurationDims  time.Duration
	DurationCopy  time.Duration
	DurationTotal time.Duration
}
