package report

const textReport = `{{ marker "i" }} Scan ID: {{ .ScanID }}
{{ marker "+" }} URL: {{ link .Target }}
{{ marker "+" }} Started: {{ dateInZone "Mon Jan _2 15:04:05 2006 MST" .StartedAt "UTC" }}
{{- range .Warnings }}
{{ marker "!" }} {{ warn . }}
{{- end }}
{{ range .Headers }}
{{ marker "+" }} Interesting header: {{ .Name | upper }}: {{ .Value }}
{{- end }}
{{- if .MissingHeaders }}
{{ marker "i" }} Missing security headers: {{ join ", " .MissingHeaders }}
{{- end }}
{{- with .Favicon }}
{{ marker "i" }} Favicon: {{ .URL }} ({{ .ShodanDork }})
{{- end }}
{{ $vulns := .Vulnerabilities }}
{{- with .Identity }}
{{- if .Version }}
{{ marker "+" }} WordPress version {{ .Version }} identified from {{ provenance .Provenance }}
{{- range vulnsFor $vulns "core" "" }}
{{ template "vuln" . }}
{{- end }}
{{- else }}
{{ marker "!" }} The WordPress version could not be detected
{{- end }}
{{- range .Components }}

{{ marker "+" }} {{ title .Kind }}: {{ .Name }}{{ with .Version }} v{{ . }}{{ end }}{{ with .Source }} ({{ . }} detection){{ end }}
{{- range vulnsFor $vulns .Kind .Name }}
{{ template "vuln" . }}
{{- end }}
{{- end }}
{{- else }}
{{ marker "!" }} The WordPress version could not be detected
{{- end }}
{{- with .FullPathDisclosure }}

{{ marker "!" }} {{ vulnTitle "Full Path Disclosure (FPD)" }} in {{ link .URL }}{{ with .Path }}: {{ . }}{{ end }}
{{- end }}
{{- if .Timthumbs }}

{{ marker "+" }} {{ len .Timthumbs }} timthumb(s) found:
{{- range .Timthumbs }}
    {{ link . }}
{{- end }}
{{- end }}
{{- if .Users }}

{{ marker "+" }} Enumerated usernames:
{{- range .Users }}
    {{ printf "%-4d" .ID }} {{ .Login }}
{{- end }}
{{- end }}
{{- if .Credentials }}

{{ marker "!" }} {{ vulnTitle "Valid credentials found" }}:
{{- range .Credentials }}
    {{ .Username }} / {{ .Password }}
{{- end }}
{{- end }}

{{ marker "+" }} Finished: {{ dateInZone "Mon Jan _2 15:04:05 2006 MST" .FinishedAt "UTC" }}
{{ marker "+" }} Elapsed time: {{ .Duration }}
{{ define "vuln" }}    {{ marker "!" }} Title: {{ vulnTitle .Title }}
{{- with .Type }}
        Type: {{ . }}
{{- end }}
{{- range .References }}
        Reference: {{ link . }}
{{- end }}
{{- with .FixedIn }}
    {{ marker "i" }} Fixed in: {{ . }}
{{- end }}
{{- end }}`
