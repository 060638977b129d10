// Copyright 2024 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gorse-io/split/base/log"
)

type builtInDataSet struct {
	url       string
	path      string
	sep       string
	hasHeader bool
}

var builtInDataSets = map[string]builtInDataSet{
	"ml-100k": {
		url:  "https://cdn.sine-x.com/datasets/movielens/ml-100k.zip",
		path: "ml-100k/u.data",
		sep:  "\t",
	},
	"ml-1m": {
		url:  "https://cdn.sine-x.com/datasets/movielens/ml-1m.zip",
		path: "ml-1m/ratings.dat",
		sep:  "::",
	},
	"ml-10m": {
		url:  "https://cdn.sine-x.com/datasets/movielens/ml-10m.zip",
		path: "ml-10M100K/ratings.dat",
		sep:  "::",
	},
	"ml-20m": {
		url:       "https://cdn.sine-x.com/datasets/movielens/ml-20m.zip",
		path:      "ml-20m/ratings.csv",
		sep:       ",",
		hasHeader: true,
	},
}

// dataDirs returns the download and dataset directories under the user's
// home directory, creating them if needed.
func dataDirs() (downloadDir, dataSetDir string, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", errors.Trace(err)
	}
	downloadDir = filepath.Join(home, ".split", "download")
	dataSetDir = filepath.Join(home, ".split", "datasets")
	for _, dir := range []string{downloadDir, dataSetDir} {
		if err = os.MkdirAll(dir, os.ModePerm); err != nil {
			return "", "", errors.Trace(err)
		}
	}
	return
}

// LoadBuiltIn loads a built-in dataset, downloading and unpacking it on
// first use. Supported names: ml-100k, ml-1m, ml-10m and ml-20m.
func LoadBuiltIn(name string) (*Ratings, error) {
	dataSet, exist := builtInDataSets[name]
	if !exist {
		return nil, errors.NotFoundf("built-in dataset %q", name)
	}
	downloadDir, dataSetDir, err := dataDirs()
	if err != nil {
		return nil, errors.Trace(err)
	}
	dataFileName := filepath.Join(dataSetDir, dataSet.path)
	if _, err = os.Stat(dataFileName); os.IsNotExist(err) {
		zipFileName, err := downloadFromUrl(dataSet.url, downloadDir)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if _, err = unzip(zipFileName, dataSetDir); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return LoadCSV(dataFileName, dataSet.sep, dataSet.hasHeader)
}

// downloadFromUrl downloads a file into dst and returns its path.
func downloadFromUrl(src, dst string) (string, error) {
	log.Logger().Info("download dataset", zap.String("url", src))
	tokens := strings.Split(src, "/")
	fileName := filepath.Join(dst, tokens[len(tokens)-1])
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return fileName, errors.Trace(err)
	}
	output, err := os.Create(fileName)
	if err != nil {
		return fileName, errors.Trace(err)
	}
	defer output.Close()
	response, err := http.Get(src)
	if err != nil {
		return fileName, errors.Trace(err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fileName, errors.Errorf("download %s: %s", src, response.Status)
	}
	// progress bar
	pbReader := progressbar.NewReader(response.Body, progressbar.DefaultBytes(
		response.ContentLength,
		"Downloading",
	))
	if _, err = io.Copy(output, &pbReader); err != nil {
		return fileName, errors.Trace(err)
	}
	return fileName, nil
}

// unzip extracts a zip archive into dst and returns the extracted paths.
func unzip(src, dst string) ([]string, error) {
	var fileNames []string
	r, err := zip.OpenReader(src)
	if err != nil {
		return fileNames, errors.Trace(err)
	}
	defer r.Close()
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return fileNames, errors.Trace(err)
		}
		filePath := filepath.Join(dst, f.Name)
		// zip slip
		if !strings.HasPrefix(filePath, filepath.Clean(dst)+string(os.PathSeparator)) {
			rc.Close()
			return fileNames, fmt.Errorf("%s: illegal file path", filePath)
		}
		fileNames = append(fileNames, filePath)
		if f.FileInfo().IsDir() {
			if err = os.MkdirAll(filePath, os.ModePerm); err != nil {
				rc.Close()
				return fileNames, errors.Trace(err)
			}
		} else {
			if err = os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
				rc.Close()
				return fileNames, errors.Trace(err)
			}
			outFile, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
			if err != nil {
				rc.Close()
				return fileNames, errors.Trace(err)
			}
			_, err = io.Copy(outFile, rc)
			outFile.Close()
			if err != nil {
				rc.Close()
				return fileNames, errors.Trace(err)
			}
		}
		rc.Close()
	}
	return fileNames, nil
}
