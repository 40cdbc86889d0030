package template

// builtins are named views selectable with --template @name
var builtins = map[string]string{
	// printable attachment sheet
	"attachment": `ATTACHMENT {{ .id }}
Name:      {{ .name }}
Type:      {{ .type }}
File:      {{ default "-" .fileName }}
Link:      {{ default "-" .fileUrl }}
Recorded:  {{ day .createdAt }}`,

	"activity": `{{ range .recentActivity }}{{ day .activityDate }}  {{ printf "%-8s" .itemType }}  {{ .title }}{{ with .status }} [{{ . }}]{{ end }}
{{ end }}`,

	"table": `{{ range . }}{{ .id }}  {{ default .name .title }}{{ with .status }}  {{ . }}{{ end }}
{{ end }}`,
}
