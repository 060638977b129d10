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

package config

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

func validatePositive(name string, val int) {
	if val <= 0 {
		panic(fmt.Sprintf("value of `%s` in config must be positive, but the current value is %d", name, val))
	}
}

func validateRatio(name string, val float64) {
	if val <= 0 || val >= 1 {
		panic(fmt.Sprintf("value of `%s` in config must be in (0,1), but the current value is %v", name, val))
	}
}

func validateIn(name, val string, expectedValues []string) {
	expectedValueSet := mapset.NewSet(expectedValues...)
	if !expectedValueSet.Contains(val) {
		panic(fmt.Sprintf("value of `%s` in config must be one of [%s], but the current value is %s",
			name, strings.Join(expectedValues, ","), val))
	}
}
