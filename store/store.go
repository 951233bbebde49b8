// Package store persists validated collision records, plus the derived
// hour/nkilled/death fields, to ClickHouse.
package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/invertedv/chutils"
	"github.com/invertedv/chutils/file"
	"github.com/invertedv/chutils/nested"
	s "github.com/invertedv/chutils/sql"
)

// Load reads the raw collision CSV into the ClickHouse table,
// validating per the TableDef and appending the derived fields.
func Load(sourceFile, table string, create bool, nConcur int, con *chutils.Connect) (err error) {
	f, err := os.Open(sourceFile)
	if err != nil {
		return err
	}

	rdr := file.NewReader(sourceFile, ',', '\n', '"', 0, 1, 0, f, 6000000)
	defer func() {
		// don't throw an error if we already have one
		if e := rdr.Close(); e != nil && err == nil {
			err = e
		}
	}()

	rdr.SetTableSpec(Build())

	// rdr is the base reader the slice of readers is based on
	rdrs, err := file.Rdrs(rdr, nConcur)
	if err != nil {
		return err
	}

	var wrtrs []chutils.Output
	if wrtrs, err = s.Wrtrs(table, nConcur, con); err != nil {
		return err
	}

	newCalcs := make([]nested.NewCalcFn, 0)
	newCalcs = append(newCalcs, hourField, nKilledField, deathField)

	// rdrsn is a slice of nested readers -- needed since we are adding fields to the raw data
	rdrsn := make([]chutils.Input, 0)
	for j, r := range rdrs {
		rn, e := nested.NewReader(r, xtraFields(), newCalcs)
		if e != nil {
			return e
		}

		if j == 0 {
			if e := rn.TableSpec().Check(); e != nil {
				return e
			}
			if create {
				if err = rn.TableSpec().Create(con, table); err != nil {
					return err
				}
			}
		}
		rdrsn = append(rdrsn, rn)
	}

	return chutils.Concur(nConcur, rdrsn, wrtrs, 400000)
}

// xtraFields defines the derived fields appended by the nested reader.
func xtraFields() (fds []*chutils.FieldDef) {
	hfd := &chutils.FieldDef{
		Name:        "hour",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "hour of day the crash occurred (from crashTime)",
		Legal:       &chutils.LegalValues{LowLimit: int32(0), HighLimit: int32(23)},
		Missing:     int32(-1),
	}
	nfd := &chutils.FieldDef{
		Name:        "nKilled",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "pedestrians + cyclists + motorists killed",
		Legal:       &chutils.LegalValues{LowLimit: int32(0), HighLimit: int32(99)},
		Missing:     int32(-1),
	}
	dfd := &chutils.FieldDef{
		Name:        "death",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "1 if anybody was killed",
		Legal:       &chutils.LegalValues{LowLimit: int32(0), HighLimit: int32(1)},
		Missing:     int32(-1),
	}

	return []*chutils.FieldDef{hfd, nfd, dfd}
}

// hourField derives the hour of day from the crashTime field.
func hourField(td *chutils.TableDef, data chutils.Row, valid chutils.Valid, validate bool) (interface{}, error) {
	ind, _, err := td.Get("crashTime")
	if err != nil {
		return nil, err
	}

	hhmm := strings.SplitN(data[ind].(string), ":", 2)
	t, err := time.Parse("15", hhmm[0])
	if err != nil {
		return int32(-1), nil
	}

	return int32(t.Hour()), nil
}

// nKilledField sums the killed sub-counts; the recorded persons-killed
// total is kept in the table but the sum is the field analyses use.
func nKilledField(td *chutils.TableDef, data chutils.Row, valid chutils.Valid, validate bool) (interface{}, error) {
	total := int32(0)
	for _, fld := range []string{"pedKill", "cycKill", "motKill"} {
		ind, _, err := td.Get(fld)
		if err != nil {
			return nil, err
		}

		v, ok := data[ind].(int32)
		if !ok || v < 0 {
			return int32(-1), nil
		}
		total += v
	}

	return total, nil
}

func deathField(td *chutils.TableDef, data chutils.Row, valid chutils.Valid, validate bool) (interface{}, error) {
	nk, err := nKilledField(td, data, valid, validate)
	if err != nil {
		return nil, err
	}

	switch v := nk.(int32); {
	case v < 0:
		return int32(-1), nil
	case v > 0:
		return int32(1), nil
	default:
		return int32(0), nil
	}
}

// Build builds the TableDef for the raw collision file.
func Build() *chutils.TableDef {
	var (
		minDt  = time.Date(2012, 7, 1, 0, 0, 0, 0, time.UTC)
		nowDt  = time.Now()
		missDt = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

		strMiss = ""

		boroughLvl = []string{"BRONX", "BROOKLYN", "MANHATTAN", "QUEENS", "STATEN ISLAND"}

		zipMin, zipMax, zipMiss = int32(10000), int32(11699), int32(-1)

		latMin, latMax, latMiss = float32(40.4), float32(41.0), float32(0.0)
		lonMin, lonMax, lonMiss = float32(-74.3), float32(-73.6), float32(0.0)

		injMin, injMax, injMiss   = int32(0), int32(999), int32(-1)
		killMin, killMax, kilMiss = int32(0), int32(99), int32(-1)

		idMin, idMax, idMiss = int32(1), int32(2000000000), int32(-1)
	)

	fds := make(map[int]*chutils.FieldDef)

	fds[0] = &chutils.FieldDef{
		Name:        "crashDate",
		ChSpec:      chutils.ChField{Base: chutils.ChDate, Format: "01/02/2006"},
		Description: "date of the crash, missing=" + missDt.Format("2006/1/2"),
		Legal:       &chutils.LegalValues{LowLimit: minDt, HighLimit: nowDt},
		Missing:     missDt,
	}
	fds[1] = &chutils.FieldDef{
		Name:        "crashTime",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "time of the crash, hh:mm",
		Legal:       chutils.NewLegalValues(),
		Missing:     strMiss,
	}
	fds[2] = &chutils.FieldDef{
		Name:        "borough",
		ChSpec:      chutils.ChField{Base: chutils.ChString, Funcs: chutils.OuterFuncs{chutils.OuterLowCardinality}},
		Description: "borough of the crash, empty when unknown",
		Legal:       &chutils.LegalValues{Levels: append(boroughLvl, "")},
		Missing:     strMiss,
	}
	fds[3] = &chutils.FieldDef{
		Name:        "zip",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "zip code of the crash, missing=-1",
		Legal:       &chutils.LegalValues{LowLimit: zipMin, HighLimit: zipMax},
		Missing:     zipMiss,
	}
	fds[4] = &chutils.FieldDef{
		Name:        "lat",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 32},
		Description: "latitude of the crash, 0 when unknown",
		Legal:       &chutils.LegalValues{LowLimit: latMin, HighLimit: latMax},
		Missing:     latMiss,
	}
	fds[5] = &chutils.FieldDef{
		Name:        "lon",
		ChSpec:      chutils.ChField{Base: chutils.ChFloat, Length: 32},
		Description: "longitude of the crash, 0 when unknown",
		Legal:       &chutils.LegalValues{LowLimit: lonMin, HighLimit: lonMax},
		Missing:     lonMiss,
	}
	fds[6] = &chutils.FieldDef{
		Name:        "location",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "(lat, lon) as text",
		Legal:       chutils.NewLegalValues(),
		Missing:     strMiss,
	}
	fds[7] = &chutils.FieldDef{
		Name:        "onStreet",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "street the crash occurred on",
		Legal:       chutils.NewLegalValues(),
		Missing:     strMiss,
	}
	fds[8] = &chutils.FieldDef{
		Name:        "crossStreet",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "nearest cross street",
		Legal:       chutils.NewLegalValues(),
		Missing:     strMiss,
	}
	fds[9] = &chutils.FieldDef{
		Name:        "offStreet",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "off-street location (parking lot, driveway)",
		Legal:       chutils.NewLegalValues(),
		Missing:     strMiss,
	}
	fds[10] = &chutils.FieldDef{
		Name:        "persInj",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "number of persons injured, missing=-1",
		Legal:       &chutils.LegalValues{LowLimit: injMin, HighLimit: injMax},
		Missing:     injMiss,
	}
	fds[11] = &chutils.FieldDef{
		Name:        "persKill",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "number of persons killed as recorded, missing=-1",
		Legal:       &chutils.LegalValues{LowLimit: killMin, HighLimit: killMax},
		Missing:     kilMiss,
	}
	fds[12] = &chutils.FieldDef{
		Name:        "pedInj",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "number of pedestrians injured, missing=-1",
		Legal:       &chutils.LegalValues{LowLimit: injMin, HighLimit: injMax},
		Missing:     injMiss,
	}
	fds[13] = &chutils.FieldDef{
		Name:        "pedKill",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "number of pedestrians killed, missing=-1",
		Legal:       &chutils.LegalValues{LowLimit: killMin, HighLimit: killMax},
		Missing:     kilMiss,
	}
	fds[14] = &chutils.FieldDef{
		Name:        "cycInj",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "number of cyclists injured, missing=-1",
		Legal:       &chutils.LegalValues{LowLimit: injMin, HighLimit: injMax},
		Missing:     injMiss,
	}
	fds[15] = &chutils.FieldDef{
		Name:        "cycKill",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "number of cyclists killed, missing=-1",
		Legal:       &chutils.LegalValues{LowLimit: killMin, HighLimit: killMax},
		Missing:     kilMiss,
	}
	fds[16] = &chutils.FieldDef{
		Name:        "motInj",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "number of motorists injured, missing=-1",
		Legal:       &chutils.LegalValues{LowLimit: injMin, HighLimit: injMax},
		Missing:     injMiss,
	}
	fds[17] = &chutils.FieldDef{
		Name:        "motKill",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "number of motorists killed, missing=-1",
		Legal:       &chutils.LegalValues{LowLimit: killMin, HighLimit: killMax},
		Missing:     kilMiss,
	}

	for v := 1; v <= 5; v++ {
		fds[17+v] = &chutils.FieldDef{
			Name:        fmt.Sprintf("factor%d", v),
			ChSpec:      chutils.ChField{Base: chutils.ChString, Funcs: chutils.OuterFuncs{chutils.OuterLowCardinality}},
			Description: fmt.Sprintf("contributing factor, vehicle %d", v),
			Legal:       chutils.NewLegalValues(),
			Missing:     strMiss,
		}
	}

	fds[23] = &chutils.FieldDef{
		Name:        "collisionId",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "unique collision id, missing=-1",
		Legal:       &chutils.LegalValues{LowLimit: idMin, HighLimit: idMax},
		Missing:     idMiss,
	}

	for v := 1; v <= 5; v++ {
		fds[23+v] = &chutils.FieldDef{
			Name:        fmt.Sprintf("vehType%d", v),
			ChSpec:      chutils.ChField{Base: chutils.ChString, Funcs: chutils.OuterFuncs{chutils.OuterLowCardinality}},
			Description: fmt.Sprintf("vehicle type, vehicle %d", v),
			Legal:       chutils.NewLegalValues(),
			Missing:     strMiss,
		}
	}

	return chutils.NewTableDef("collisionId", chutils.MergeTree, fds)
}
