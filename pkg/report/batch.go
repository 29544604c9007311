package report

const (
	// DefaultMemoryGB is the memory assumed available when sizing row batches
	DefaultMemoryGB = 4.0

	// estimatedMBPerRepo is the rough memory footprint of one repository row
	estimatedMBPerRepo = 0.1
)

// AdaptiveBatchSize returns the number of rows to sanitize and stream at a time for the
// specified number of repositories and available memory.
func AdaptiveBatchSize(total int, memoryGB float64) int {
	switch {
	case total < 50:
		return min(total, 25)
	case total < 200:
		return min(total/2, 50)
	case total < 1000:
		return 100
	}

	batch := int(memoryGB*1024/estimatedMBPerRepo) / 4
	if memoryGB < 2 {
		batch = min(batch, 50)
	}
	return min(batch, 200)
}
