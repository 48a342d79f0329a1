package dataset

import (
	"encoding/json"
	"os"

	"github.com/creditorural/forecaster/internal/models"
	"github.com/creditorural/forecaster/internal/utils"
)

// Load reads the aggregated-series artifact from path. A missing file,
// malformed JSON, or a payload with no series views at all is a contract
// violation by the ETL layer and surfaces as a DataFormatError.
func Load(path string) (*models.AggregatedData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.NewDataFormatError("cannot open aggregated dataset", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var data models.AggregatedData
	if err := json.NewDecoder(f).Decode(&data); err != nil {
		return nil, utils.NewDataFormatError("cannot decode aggregated dataset", err)
	}

	if data.Empty() {
		return nil, utils.NewDataFormatError("aggregated dataset has no series views", nil)
	}

	return &data, nil
}
