package protocol

import (
	"fmt"
	"math"
)

// Volume range supported by the DP564 master volume, in dB.
const (
	MinVolumeDb = -95.0
	MaxVolumeDb = 0.0

	// VolumeStepDb is the finest volume granularity the wire format can
	// represent: one byte step equals half a dB.
	VolumeStepDb = 0.5
)

// VolumeToByte converts a dB level to its wire byte. The encoding maps
// 0.0 dB to 192 (0xc0) and each half-dB step to one byte, so -95.0 dB
// encodes as 2. Values outside [-95.0, 0.0] are rejected.
func VolumeToByte(db float64) (byte, error) {
	if db < MinVolumeDb || db > MaxVolumeDb {
		return 0, fmt.Errorf("volume %.1f dB out of range [%.1f, %.1f]", db, MinVolumeDb, MaxVolumeDb)
	}
	return byte(math.Round(192 + db*2)), nil
}

// ByteToVolume converts a wire byte back to dB. It is the exact inverse of
// VolumeToByte for every valid half-dB step. The result may fall outside
// the device's range for bytes no valid level encodes to; callers clamp.
func ByteToVolume(b byte) float64 {
	return (float64(b) - 192) / 2.0
}

// ClampVolume limits a dB value to the device's supported range.
func ClampVolume(db float64) float64 {
	if db < MinVolumeDb {
		return MinVolumeDb
	}
	if db > MaxVolumeDb {
		return MaxVolumeDb
	}
	return db
}
