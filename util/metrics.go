package util

import (
	"encoding/json"
	"github.com/pkg/errors"
	"os"
	"path/filepath"
)

// MetricsId identifies the producer of a metrics sample directory.
//
type MetricsId struct {
	Id     string            `json:"id"`
	Values map[string]string `json:"values,omitempty"`
}

const metricsIdFile = "metrics.id"

func WriteMetricsId(id, outPath string, values map[string]string) error {
	mid := &MetricsId{Id: id, Values: values}
	data, err := json.MarshalIndent(mid, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outPath, metricsIdFile), data, os.ModePerm)
}

func ReadMetricsId(path string) (*MetricsId, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	metricsId := &MetricsId{}
	if err = json.Unmarshal(data, metricsId); err != nil {
		return nil, err
	}
	return metricsId, nil
}

// DiscoverMetrics walks root and returns every directory containing a metrics.id, keyed by directory.
//
func DiscoverMetrics(root string) (map[string]*MetricsId, error) {
	var metricsIdPaths []string
	err := filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() && filepath.Base(path) == metricsIdFile {
			metricsIdPaths = append(metricsIdPaths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metricsMap := make(map[string]*MetricsId)
	for _, metricsIdPath := range metricsIdPaths {
		metricsId, err := ReadMetricsId(metricsIdPath)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading [%s]", metricsIdPath)
		}
		metricsMap[filepath.Dir(metricsIdPath)] = metricsId
	}
	return metricsMap, nil
}
