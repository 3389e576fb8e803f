package util

import (
	"bufio"
	"bytes"
	"fmt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Sample struct {
	Ts time.Time
	V  int64
}

// Tally is a named counter, written as a single "name,value" line.
//
type Tally struct {
	Name string
	V    int64
}

func WriteSamples(name, outPath string, samples []*Sample) error {
	path := filepath.Join(outPath, fmt.Sprintf("%s.csv", name))
	oF, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.ModePerm)
	if err != nil {
		return err
	}
	defer func() { _ = oF.Close() }()
	for _, sample := range samples {
		line := fmt.Sprintf("%d,%d\n", sample.Ts.UnixNano(), sample.V)
		n, err := oF.Write([]byte(line))
		if err != nil {
			return err
		}
		if n != len(line) {
			return errors.New("short write")
		}
	}
	logrus.Debugf("wrote [%d] samples to [%s]", len(samples), path)
	return nil
}

func ReadSamples(path string) (data map[int64]int64, err error) {
	var raw []byte
	raw, err = os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data = make(map[int64]int64)
	scanner := bufio.NewScanner(bytes.NewBuffer(raw))
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Split(line, ",")
		if len(tokens) != 2 {
			return nil, errors.Errorf("malformed sample line [%s]", line)
		}
		ts, err := strconv.ParseInt(tokens[0], 10, 64)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(tokens[1], 10, 64)
		if err != nil {
			return nil, err
		}
		data[ts] = v
	}

	return
}

func WriteTallies(name, outPath string, tallies []*Tally) error {
	path := filepath.Join(outPath, fmt.Sprintf("%s.csv", name))
	oF, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.ModePerm)
	if err != nil {
		return err
	}
	defer func() { _ = oF.Close() }()
	for _, tally := range tallies {
		if _, err := fmt.Fprintf(oF, "%s,%d\n", tally.Name, tally.V); err != nil {
			return err
		}
	}
	logrus.Debugf("wrote [%d] tallies to [%s]", len(tallies), path)
	return nil
}

func ReadTallies(path string) ([]*Tally, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tallies []*Tally
	scanner := bufio.NewScanner(bytes.NewBuffer(raw))
	for scanner.Scan() {
		line := scanner.Text()
		i := strings.LastIndex(line, ",")
		if i < 1 {
			return nil, errors.Errorf("malformed tally line [%s]", line)
		}
		v, err := strconv.ParseInt(line[i+1:], 10, 64)
		if err != nil {
			return nil, err
		}
		tallies = append(tallies, &Tally{Name: line[:i], V: v})
	}
	return tallies, nil
}
