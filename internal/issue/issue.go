// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	CriticalToolMissingId Id = iota + 1
	RegistryLoadFailedId
	ConfigLoadFailedId
	ReportDirUnwritableId
	VenvNotDetectedId
	EnvVarMissingId
	ProbeTimeoutId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	criticalToolMissingIssue = &Issue{
		id: CriticalToolMissingId,
		mdMsg: `
# Critical tool missing!

A tool your project declares as critical could not be detected, so the
environment is blocked.

## Things you can try:
- Install the tool using the link printed in the check output
- Verify the tool is on your PATH:
~~~
$ which <tool>
~~~

- Re-run the check once installed:
~~~
$ preflight check
~~~

- If the tool lives in a virtual environment, activate it first:
~~~
$ source .venv/bin/activate
~~~`,
	}

	registryLoadFailedIssue = &Issue{
		id: RegistryLoadFailedId,
		mdMsg: `
# Failed to load the tool registry!

Your registry file contains syntax errors or invalid declarations.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- A critical tool declaring a fallback (critical tools must not degrade silently)
- An environment variable referencing a tool the registry does not declare

## Things you can try:
- Check the error message above for the specific field
- Compare with the built-in registry:
~~~
$ preflight registry show
~~~

## Example of a valid tool declaration:
~~~cue
tools: {
  git: {
    command:    "git --version"
    critical:   true
    installUrl: "https://git-scm.com/downloads"
  }
}
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the preflight configuration file.

## Configuration file locations:
- Linux: ~/.config/preflight/config.cue
- macOS: ~/Library/Application Support/preflight/config.cue
- Windows: %APPDATA%\preflight\config.cue

## Things you can try:
- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/preflight/config.cue
~~~

## Example configuration:
~~~cue
probe_timeout: "8s"
report_paths: ["reports"]

ui: {
  verbose: false
}
~~~`,
	}

	reportDirUnwritableIssue = &Issue{
		id: ReportDirUnwritableId,
		mdMsg: `
# Report directory is not writable!

The check ran, but report generation will fail later because a declared
output directory cannot be written.

## Things you can try:
- Check file/directory permissions:
~~~
$ ls -ld reports
~~~

- Point at a writable directory in your registry:
~~~cue
reportPaths: ["/tmp/myproject-reports"]
~~~

- Run preflight from a directory you own`,
	}

	venvNotDetectedIssue = &Issue{
		id: VenvNotDetectedId,
		mdMsg: `
# No virtual environment detected!

No virtual environment was found, so Python-ecosystem tools are probed on
the bare PATH.

## Search locations (in order of precedence):
1. $VIRTUAL_ENV (an activated environment)
2. .venv/ in the working directory
3. venv/ and env/ in the working directory

## Things you can try:
- Create and populate one:
~~~
$ python -m venv .venv
$ .venv/bin/pip install -r requirements.txt
~~~

- Or activate an existing one before running the check:
~~~
$ source path/to/venv/bin/activate
~~~`,
	}

	envVarMissingIssue = &Issue{
		id: EnvVarMissingId,
		mdMsg: `
# Required environment variable missing!

A tool you have installed needs an environment variable that is unset or
empty.

## Things you can try:
- Export it in your shell profile:
~~~
$ export MY_TOKEN="..."
~~~

- Or set it for a single run:
~~~
$ MY_TOKEN="..." preflight check
~~~

Values are never read or logged; only presence is checked.`,
	}

	probeTimeoutIssue = &Issue{
		id: ProbeTimeoutId,
		mdMsg: `
# A probe timed out!

A tool's version command did not finish within the probe timeout, so the
tool was treated as unavailable.

## Common causes:
- The tool phones home on startup (slow or blocked network)
- A wrapper script waits for input
- An overloaded machine

## Things you can try:
- Run the probe command manually to see where it hangs
- Raise the timeout in your configuration:
~~~cue
probe_timeout: "30s"
~~~`,
	}

	issues = map[Id]*Issue{
		criticalToolMissingIssue.Id(): criticalToolMissingIssue,
		registryLoadFailedIssue.Id():  registryLoadFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		reportDirUnwritableIssue.Id(): reportDirUnwritableIssue,
		venvNotDetectedIssue.Id():     venvNotDetectedIssue,
		envVarMissingIssue.Id():       envVarMissingIssue,
		probeTimeoutIssue.Id():        probeTimeoutIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
