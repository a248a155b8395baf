// Package mstools provides chunked in-place transforms for radio
// interferometric measurement sets.
//
// A measurement set is a row table of baseline-time integrations with
// visibility, weight and flag columns plus keyword subtables describing
// antennas, sources, polarization setup and the observation. The
// transform package walks the main table in fixed-size chunks and
// rewrites columns in place:
//
//	ctx := context.Background()
//	ms, err := transform.Open("./ev042a.ms")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ms.Close()
//
//	// Swap the polarizations recorded backwards at one station.
//	err = ms.PolSwap(ctx, "EF", transform.WithLogger(mstools.NewTextLogger(slog.LevelInfo)))
//
//	// Flag everything whose weight falls below the threshold.
//	stats, err := ms.FlagWeights(ctx, 0.5, transform.WithDryRun())
//
// The remaining packages supply the supporting layers: mstable holds the
// table model (in-memory and mmap-backed disk tables), msmeta reads the
// observation metadata, stokes and mjd cover the polarization and time
// conventions, and blobstore plus archive move packed tables in and out
// of local or object storage.
package mstools
