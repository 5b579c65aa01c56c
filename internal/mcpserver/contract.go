package mcpserver

// ContentFormatContract describes the on-disk format of journal content
// files for LLM consumers reading or authoring entries.
const ContentFormatContract = `# Journal Content Format

Every entry is one JSON file below the content root. Blog posts live under
` + "`blog/`" + `, top-level pages under ` + "`pages/`" + `. Sub-directories are
free-form (e.g. one per year) and do not affect URLs.

## File name

` + "`YYYY-MM-DD_slug.json`" + ` or ` + "`slug.json`" + `. The slug is the part after the
first underscore when the stem starts with three dash-separated numbers,
otherwise the whole stem. Only files ending in exactly ` + "`.json`" + ` are loaded.

## Fields

| field     | type              | required | notes                                   |
|-----------|-------------------|----------|-----------------------------------------|
| eid       | string            | yes      | stable opaque identifier                |
| title     | string            | yes      |                                         |
| date      | RFC 3339 string   | yes      | offset is kept and used for the URL     |
| content   | string            | yes      | pre-rendered HTML, served unescaped     |
| tags      | array of strings  | no       | missing or null means no tags           |
| image     | string or null    | no       | cover image URL for previews            |
| slug      | string            | no       | ignored; the file name wins             |

Unknown fields are ignored. A missing or null required field, malformed JSON
or a malformed date makes the whole site fail to start.

## URLs

Blog posts are served at ` + "`/blog/YYYY/MM/DD/slug`" + ` using the date in its
own offset. Pages are served at ` + "`/slug`" + `. Two entries with the same date
and slug collide; the later one in date order owns the URL.

## Example

` + "```" + `json
{
  "eid": "01J9ZQ3K8C",
  "title": "Dameleon",
  "date": "2024-10-10T21:30:00+02:00",
  "tags": ["go", "tools"],
  "image": null,
  "content": "<p>Hello.</p>"
}
` + "```" + `
`
