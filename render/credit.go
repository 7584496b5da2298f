// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
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

package render

import (
	"github.com/penny-vault/marketdash/dataframe"
	"gonum.org/v1/plot"
)

// Output files of the credit charts
const (
	CreditEURHYImage     = "credit_eur_hy.png"
	CreditUSHYImage      = "credit_us_hy.png"
	CreditUSIGImage      = "credit_us_ig.png"
	CreditEMHYImage      = "credit_em_hy.png"
	CreditDashboardImage = "credit_dashboard_fred.png"
)

// Columns of the credit table; values are option adjusted spreads in
// percent
const (
	ColEURHY = "EU_HY_OAS"
	ColUSHY  = "US_HY_OAS"
	ColUSIG  = "US_IG_OAS"
	ColEMHY  = "EM_HY_OAS"
)

var creditCharts = []chart{
	{CreditEURHYImage, oasChart("iTraxx Europe HY", ColEURHY)},
	{CreditUSHYImage, oasChart("CDX US High Yield", ColUSHY)},
	{CreditUSIGImage, oasChart("CDX US Investment Grade", ColUSIG)},
	{CreditEMHYImage, oasChart("EM HY OAS", ColEMHY)},
}

// CreditCharts draws one chart per spread, in basis points, and a 2x2
// dashboard of them
func CreditCharts(weekly *dataframe.DataFrame, outDir string) ([]string, error) {
	return renderCharts(weekly, creditCharts, CreditDashboardImage, outDir)
}

func oasChart(title, col string) func(df *dataframe.DataFrame) *plot.Plot {
	return func(df *dataframe.DataFrame) *plot.Plot {
		p := newTimePlot(title, "bps")
		addLine(p, timeXYs(df, col, 100), creditColor, "")
		return p
	}
}
