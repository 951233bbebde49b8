// Package crash loads the public motor-vehicle-collision CSV and
// derives the analysis variables: hour of day, killed counts, a death
// indicator and a collapsed contributing factor.
package crash

import (
	"fmt"

	"github.com/joshday/DataJamboree2022/frame"
)

// Normalized names of the columns the pipeline uses.
const (
	ColDate     = "crash_date"
	ColTime     = "crash_time"
	ColBorough  = "borough"
	ColZip      = "zip_code"
	ColLat      = "latitude"
	ColLon      = "longitude"
	ColPedKill  = "number_of_pedestrians_killed"
	ColCycKill  = "number_of_cyclist_killed"
	ColMotKill  = "number_of_motorist_killed"
	ColPersKill = "number_of_persons_killed"
	ColFactor   = "contributing_factor_vehicle_1"

	// columns added by Derive
	ColHour    = "hour"
	ColNKilled = "nkilled"
	ColDeath   = "death"
	ColFactor1 = "factor1"
)

// DefaultFactorThreshold is the observed-frequency cutoff below which a
// contributing-factor label collapses to "Other".
const DefaultFactorThreshold = 100

// Other is the collapsed label for rare contributing factors.
const Other = "Other"

// Load reads the collision CSV and checks that the columns the pipeline
// needs are present with usable types.
func Load(files *frame.Files, fileName string) (*frame.DF, error) {
	df, e := files.Load(fileName)
	if e != nil {
		return nil, e
	}

	checks := []struct {
		name string
		dt   frame.DataTypes
	}{
		{ColDate, frame.DTdate},
		{ColTime, frame.DTstring},
		{ColBorough, frame.DTstring},
		{ColZip, frame.DTint},
		{ColLat, frame.DTfloat},
		{ColLon, frame.DTfloat},
		{ColPedKill, frame.DTint},
		{ColCycKill, frame.DTint},
		{ColMotKill, frame.DTint},
		{ColPersKill, frame.DTint},
		{ColFactor, frame.DTstring},
	}

	for _, chk := range checks {
		c, ex := df.Column(chk.name)
		if ex != nil {
			return nil, fmt.Errorf("%s: %w", fileName, ex)
		}

		if c.DataType() != chk.dt {
			return nil, fmt.Errorf("%s: column %s is %v, want %v", fileName, chk.name, c.DataType(), chk.dt)
		}
	}

	return df, nil
}
