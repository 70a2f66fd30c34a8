package envinfo

import "os"

// ciInfo identifies the CI system a build runs under.
type ciInfo struct {
	provider string
	buildID  string
	buildURL string
}

// ciProvider describes how one CI system announces itself through the
// environment. marker identifies the provider; the remaining variables
// fill in build coordinates when present.
type ciProvider struct {
	name     string
	marker   string
	buildID  string
	buildURL func() string
}

// ciProviders is checked in order; the generic CI=true convention comes
// last so a specific match always wins.
var ciProviders = []ciProvider{
	{
		name:    "github-actions",
		marker:  "GITHUB_ACTIONS",
		buildID: "GITHUB_RUN_ID",
		buildURL: func() string {
			server := os.Getenv("GITHUB_SERVER_URL")
			repo := os.Getenv("GITHUB_REPOSITORY")
			runID := os.Getenv("GITHUB_RUN_ID")
			if server == "" || repo == "" || runID == "" {
				return ""
			}
			return server + "/" + repo + "/actions/runs/" + runID
		},
	},
	{
		name:     "gitlab-ci",
		marker:   "GITLAB_CI",
		buildID:  "CI_JOB_ID",
		buildURL: func() string { return os.Getenv("CI_JOB_URL") },
	},
	{
		name:     "jenkins",
		marker:   "JENKINS_URL",
		buildID:  "BUILD_ID",
		buildURL: func() string { return os.Getenv("BUILD_URL") },
	},
	{
		name:     "circleci",
		marker:   "CIRCLECI",
		buildID:  "CIRCLE_BUILD_NUM",
		buildURL: func() string { return os.Getenv("CIRCLE_BUILD_URL") },
	},
	{
		name:     "travis-ci",
		marker:   "TRAVIS",
		buildID:  "TRAVIS_BUILD_ID",
		buildURL: func() string { return os.Getenv("TRAVIS_BUILD_WEB_URL") },
	},
	{
		name:     "generic",
		marker:   "CI",
		buildURL: func() string { return "" },
	},
}

// detectCI reports the CI system announced by the environment, if any.
// An empty marker variable counts as unset, so tests can blank markers
// inherited from a real CI run.
func detectCI() (ciInfo, bool) {
	for _, p := range ciProviders {
		value := os.Getenv(p.marker)
		if value == "" || value == "false" {
			continue
		}
		info := ciInfo{provider: p.name, buildURL: p.buildURL()}
		if p.buildID != "" {
			info.buildID = os.Getenv(p.buildID)
		}
		return info, true
	}
	return ciInfo{}, false
}
