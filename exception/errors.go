// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package exception

import (
	"fmt"
	"sort"
	"strings"
)

type CustomError struct {
	Status  int                    `json:"status"`
	Code    string                 `json:"code,omitempty"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Debug   string                 `json:"debug,omitempty"`
}

func (c CustomError) Error() string {
	msg := c.Message
	// longest keys first, so $urlValue is not clobbered by $url
	keys := make([]string, 0, len(c.Params))
	for k := range c.Params {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	for _, k := range keys {
		msg = strings.ReplaceAll(msg, "$"+k, fmt.Sprintf("%v", c.Params[k]))
	}
	return msg
}

const BadRequestBody = "10"
const BadRequestBodyMsg = "Failed to decode body"

const RequiredParamsMissing = "15"
const RequiredParamsMissingMsg = "Required parameters are missing: $params"

const InvalidURL = "20"
const InvalidURLMsg = "Invalid URL format provided: $url"

const UnsupportedURLScheme = "21"
const UnsupportedURLSchemeMsg = "URL scheme '$scheme' is not supported, use http or https"

const RulesetNotFound = "100"
const RulesetNotFoundMsg = "Ruleset with version $version is not found"

const TooManyRequests = "1950"
const TooManyRequestsMsg = "Too many analysis requests, retry later"

const NotHtmlContent = "3000"
const NotHtmlContentMsg = "The URL does not point to an HTML webpage (content type '$contentType'). Please provide a valid website URL."

const MinimalContent = "3001"
const MinimalContentMsg = "Website returned empty or minimal content ($size bytes). Please check if the URL is correct."

const HtmlParseFailed = "3100"
const HtmlParseFailedMsg = "Failed to parse website HTML. The website may have malformed content."

const FetchTimeout = "4000"
const FetchTimeoutMsg = "Request timeout - website $url took too long to respond"

const DnsResolutionFailed = "4001"
const DnsResolutionFailedMsg = "Failed to resolve host $host. Please check if the URL is correct."

const ConnectionRefused = "4002"
const ConnectionRefusedMsg = "Connection to $url was refused"

const FetchFailed = "4003"
const FetchFailedMsg = "Failed to access website $url. Please check if the URL is correct and the website is accessible."

const UpstreamStatus = "4004"
const UpstreamStatusMsg = "Server responded with status $status"
