package tracker

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// EpisodeData holds the goal of one episode along with the trajectory of
// the robot during the episode. Positions are flattened over fingers.
type EpisodeData struct {
	ID             string
	JointGoal      []float64
	TipGoal        []float64
	JointPositions [][]float64
	TipPositions   [][]float64
	Timestamps     []time.Time
}

// DataLogger records the goal and trajectory of each episode so that
// episodes can be replayed later
type DataLogger struct {
	Episodes []*EpisodeData
}

// NewDataLogger returns an empty DataLogger
func NewDataLogger() *DataLogger {
	return &DataLogger{}
}

// NewEpisode starts recording a new episode with the given goal in
// joint space and in tip space
func (d *DataLogger) NewEpisode(jointGoal, tipGoal []float64) {
	d.Episodes = append(d.Episodes, &EpisodeData{
		ID:        uuid.NewString(),
		JointGoal: append([]float64(nil), jointGoal...),
		TipGoal:   append([]float64(nil), tipGoal...),
	})
}

// Append records one observation of the current episode
func (d *DataLogger) Append(jointPositions, tipPositions []float64,
	timestamp time.Time) error {
	if len(d.Episodes) == 0 {
		return fmt.Errorf("append: no episode has been started")
	}

	e := d.Episodes[len(d.Episodes)-1]
	e.JointPositions = append(e.JointPositions,
		append([]float64(nil), jointPositions...))
	e.TipPositions = append(e.TipPositions,
		append([]float64(nil), tipPositions...))
	e.Timestamps = append(e.Timestamps, timestamp)
	return nil
}

// Save stores all recorded episodes in filename
func (d *DataLogger) Save(filename string) error {
	if err := save(filename, d.Episodes); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}

// LoadEpisodes loads the episodes stored by DataLogger.Save
func LoadEpisodes(filename string) ([]*EpisodeData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadEpisodes: could not open data file: %v",
			err)
	}
	defer file.Close()

	var episodes []*EpisodeData
	if err := gob.NewDecoder(file).Decode(&episodes); err != nil {
		return nil, fmt.Errorf("loadEpisodes: could not decode data: %v",
			err)
	}
	return episodes, nil
}
