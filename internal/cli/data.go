package cli

import (
	"context"
	"io"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/mcncl/scriptkit/internal/codec"
	"github.com/mcncl/scriptkit/internal/errors"
	"github.com/mcncl/scriptkit/internal/formatter"
	"github.com/mcncl/scriptkit/internal/models"
	"github.com/mcncl/scriptkit/internal/parser"
	"github.com/mcncl/scriptkit/internal/structured"
	"github.com/mcncl/scriptkit/internal/text"
)

// DataCLI is the grammar of the data tool.
type DataCLI struct {
	Globals Globals `embed:""`

	Color bool `help:"Colorize JSON output."`

	JSON   jsonCmd   `cmd:"" name:"json" help:"Parse, validate, reshape, merge and query JSON."`
	CSV    csvCmd    `cmd:"" name:"csv" help:"Convert between CSV and JSON."`
	Text   textCmd   `cmd:"" help:"Transform text."`
	Encode encodeCmd `cmd:"" help:"Encode data as base64, url or html."`
	Decode decodeCmd `cmd:"" help:"Decode base64, url or html data."`
	Hash   hashCmd   `cmd:"" help:"Hash data with md5, sha1, sha256, sha512, crc32 or xxhash."`
	Format formatCmd `cmd:"" help:"Format currency, numbers, dates and byte counts."`
}

// RunData runs the data tool and returns its exit code.
func RunData(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...Option) int {
	var cli DataCLI
	return tool{
		name:        "data",
		description: "Data processing utilities: JSON, CSV, text, encoding, hashing and formatting.",
		grammar:     &cli,
		globals:     &cli.Globals,
		prepare:     func(rc *RunContext) { rc.Color = cli.Color },
	}.run(ctx, args, stdout, stderr, opts)
}

type jsonCmd struct {
	Parse     jsonPrettyCmd   `cmd:"" help:"Parse JSON and print it indented."`
	Stringify jsonPrettyCmd   `cmd:"" help:"Re-serialise JSON with a two-space indent."`
	Validate  jsonValidateCmd `cmd:"" help:"Check that the input is valid JSON."`
	Minify    jsonMinifyCmd   `cmd:"" help:"Print JSON without whitespace."`
	Beautify  jsonPrettyCmd   `cmd:"" help:"Print JSON with a two-space indent."`
	Merge     jsonMergeCmd    `cmd:"" help:"Deep-merge the second JSON file onto the first."`
	Extract   jsonExtractCmd  `cmd:"" help:"Extract the value at a dot-separated path."`
}

type jsonPrettyCmd struct {
	Data string `arg:"" help:"JSON text."`
}

func (c *jsonPrettyCmd) Run(rc *RunContext) error {
	value, err := parser.ParseString(c.Data)
	if err != nil {
		return err
	}
	return rc.printJSON(value)
}

type jsonValidateCmd struct {
	Data string `arg:"" help:"JSON text."`
}

func (c *jsonValidateCmd) Run(rc *RunContext) error {
	if !structured.Validate(c.Data) {
		_, err := parser.ParseString(c.Data)
		return err
	}
	rc.println("JSON is valid")
	return nil
}

type jsonMinifyCmd struct {
	Data string `arg:"" help:"JSON text."`
}

func (c *jsonMinifyCmd) Run(rc *RunContext) error {
	out, err := structured.Minify(c.Data)
	if err != nil {
		return err
	}
	rc.println(out)
	return nil
}

type jsonMergeCmd struct {
	Base    string `arg:"" help:"Base JSON file."`
	Overlay string `arg:"" help:"JSON file whose values win."`
}

func (c *jsonMergeCmd) Run(rc *RunContext) error {
	merged, err := structured.MergeFiles(rc.FS.Afero(), c.Base, c.Overlay)
	if err != nil {
		return err
	}
	return rc.printJSON(merged)
}

type jsonExtractCmd struct {
	Path string `arg:"" help:"Dot-separated key path, e.g. a.b.c."`
	Data string `arg:"" help:"JSON text."`
}

func (c *jsonExtractCmd) Run(rc *RunContext) error {
	value, err := parser.ParseString(c.Data)
	if err != nil {
		return err
	}
	found, err := structured.ExtractPath(value, c.Path)
	if err != nil {
		return err
	}
	switch found.(type) {
	case nil, *models.Object, models.Array:
		return rc.printJSON(found)
	default:
		rc.println(models.Text(found))
		return nil
	}
}

type csvCmd struct {
	Parse     csvParseCmd     `cmd:"" help:"Parse CSV into a JSON array of objects."`
	Stringify csvStringifyCmd `cmd:"" help:"Render a JSON array of objects as CSV."`
	ToJSON    csvParseCmd     `cmd:"" name:"tojson" help:"Alias of parse."`
	FromJSON  csvStringifyCmd `cmd:"" name:"fromjson" help:"Alias of stringify."`
}

type csvParseCmd struct {
	Data string `arg:"" help:"CSV text; the first line is the header."`
}

func (c *csvParseCmd) Run(rc *RunContext) error {
	return rc.printJSON(structured.RowsValue(structured.CSVParse(c.Data)))
}

type csvStringifyCmd struct {
	Data string `arg:"" help:"JSON array of objects."`
}

func (c *csvStringifyCmd) Run(rc *RunContext) error {
	value, err := parser.ParseString(c.Data)
	if err != nil {
		return err
	}
	out, err := structured.CSVStringify(value)
	if err != nil {
		return err
	}
	_, _ = io.WriteString(rc.Stdout, out)
	return nil
}

type textCmd struct {
	Reverse    unaryTextCmd   `cmd:"" help:"Reverse a string."`
	Uppercase  unaryTextCmd   `cmd:"" help:"Convert to upper case."`
	Lowercase  unaryTextCmd   `cmd:"" help:"Convert to lower case."`
	Capitalize unaryTextCmd   `cmd:"" help:"Upper-case the first character."`
	Trim       unaryTextCmd   `cmd:"" help:"Strip leading and trailing whitespace."`
	Split      textSplitCmd   `cmd:"" help:"Split on a literal separator and print a JSON array."`
	Join       textJoinCmd    `cmd:"" help:"Join the elements of a JSON array."`
	Replace    textReplaceCmd `cmd:"" help:"Replace every match of a regular expression."`
	Length     unaryTextCmd   `cmd:"" help:"Count characters."`
	Count      textCountCmd   `cmd:"" help:"Count literal occurrences of a substring."`
	Camel      unaryTextCmd   `cmd:"" help:"Convert to CamelCase."`
	LowerCamel unaryTextCmd   `cmd:"" name:"lowercamel" help:"Convert to lowerCamelCase."`
	Snake      unaryTextCmd   `cmd:"" help:"Convert to snake_case."`
	Kebab      unaryTextCmd   `cmd:"" help:"Convert to kebab-case."`
}

var unaryTransforms = map[string]func(string) string{
	"reverse":    text.Reverse,
	"uppercase":  text.Upper,
	"lowercase":  text.Lower,
	"capitalize": text.Capitalize,
	"trim":       text.Trim,
	"length":     func(s string) string { return strconv.Itoa(text.Length(s)) },
	"camel":      text.Camel,
	"lowercamel": text.LowerCamel,
	"snake":      text.Snake,
	"kebab":      text.Kebab,
}

type unaryTextCmd struct {
	Text string `arg:"" help:"Input string."`
}

func (c *unaryTextCmd) Run(rc *RunContext, kctx *kong.Context) error {
	op := kctx.Selected().Name
	fn, ok := unaryTransforms[op]
	if !ok {
		return errors.NewNotFoundError("unknown text operation "+strconv.Quote(op), errors.ErrUnknownCommand)
	}
	rc.println(fn(c.Text))
	return nil
}

type textSplitCmd struct {
	Separator string `arg:"" help:"Literal separator."`
	Text      string `arg:"" help:"Input string."`
}

func (c *textSplitCmd) Run(rc *RunContext) error {
	parts := text.Split(c.Separator, c.Text)
	arr := make(models.Array, len(parts))
	for i, p := range parts {
		arr[i] = p
	}
	rc.println(models.Compact(arr))
	return nil
}

type textJoinCmd struct {
	Separator string `arg:"" help:"Literal separator."`
	Array     string `arg:"" help:"JSON array."`
}

func (c *textJoinCmd) Run(rc *RunContext) error {
	out, err := text.Join(c.Separator, c.Array)
	if err != nil {
		return err
	}
	rc.println(out)
	return nil
}

type textReplaceCmd struct {
	Pattern     string `arg:"" help:"Regular expression (RE2 syntax)."`
	Replacement string `arg:"" help:"Replacement; $1 refers to the first group."`
	Text        string `arg:"" help:"Input string."`
}

func (c *textReplaceCmd) Run(rc *RunContext) error {
	out, err := text.Replace(c.Pattern, c.Replacement, c.Text)
	if err != nil {
		return err
	}
	rc.println(out)
	return nil
}

type textCountCmd struct {
	Substring string `arg:"" help:"Literal substring."`
	Text      string `arg:"" help:"Input string."`
}

func (c *textCountCmd) Run(rc *RunContext) error {
	rc.println(strconv.Itoa(text.Count(c.Substring, c.Text)))
	return nil
}

type encodeCmd struct {
	Format string `arg:"" help:"base64, url or html."`
	Data   string `arg:"" help:"Data to encode."`
}

func (c *encodeCmd) Run(rc *RunContext) error {
	out, err := codec.Encode(c.Format, c.Data)
	if err != nil {
		return err
	}
	rc.println(out)
	return nil
}

type decodeCmd struct {
	Format string `arg:"" help:"base64, url or html."`
	Data   string `arg:"" help:"Data to decode."`
}

func (c *decodeCmd) Run(rc *RunContext) error {
	out, err := codec.Decode(c.Format, c.Data)
	if err != nil {
		return err
	}
	rc.println(out)
	return nil
}

type hashCmd struct {
	Algorithm string `arg:"" help:"md5, sha1, sha256, sha512, crc32 or xxhash."`
	Data      string `arg:"" help:"Data to hash."`
}

func (c *hashCmd) Run(rc *RunContext) error {
	out, err := codec.Hash(c.Algorithm, c.Data)
	if err != nil {
		return err
	}
	rc.println(out)
	return nil
}

type formatCmd struct {
	Currency formatCurrencyCmd `cmd:"" help:"Format an amount of money (en-US)."`
	Number   formatNumberCmd   `cmd:"" help:"Format a number with fixed decimals."`
	Date     formatDateCmd     `cmd:"" help:"Reformat a date, in UTC."`
	Bytes    formatBytesCmd    `cmd:"" help:"Format a byte count with 1024-based units."`
}

func newFormatter(rc *RunContext) *formatter.Formatter {
	return formatter.NewFormatter(rc.Config.Format.Currency, rc.Config.Format.Decimals)
}

type formatCurrencyCmd struct {
	Value    string `arg:"" help:"Amount. Put -- before negative values."`
	Currency string `arg:"" optional:"" help:"ISO 4217 code. Defaults to format.currency (USD)."`
}

func (c *formatCurrencyCmd) Run(rc *RunContext) error {
	out, err := newFormatter(rc).Currency(c.Value, c.Currency)
	if err != nil {
		return err
	}
	rc.println(out)
	return nil
}

type formatNumberCmd struct {
	Value    string `arg:"" help:"Number. Put -- before negative values."`
	Decimals string `arg:"" optional:"" help:"Decimal places, 0-100. Defaults to format.decimals (2)."`
}

func (c *formatNumberCmd) Run(rc *RunContext) error {
	out, err := newFormatter(rc).Number(c.Value, c.Decimals)
	if err != nil {
		return err
	}
	rc.println(out)
	return nil
}

type formatDateCmd struct {
	Date    string `arg:"" help:"Date or timestamp, e.g. 2024-03-05T06:07:08Z."`
	Pattern string `arg:"" optional:"" help:"Pattern using YYYY MM DD HH mm ss. Defaults to ISO 8601."`
}

func (c *formatDateCmd) Run(rc *RunContext) error {
	out, err := newFormatter(rc).Date(c.Date, c.Pattern)
	if err != nil {
		return err
	}
	rc.println(out)
	return nil
}

type formatBytesCmd struct {
	Count string `arg:"" help:"Number of bytes."`
}

func (c *formatBytesCmd) Run(rc *RunContext) error {
	out, err := newFormatter(rc).Bytes(c.Count)
	if err != nil {
		return err
	}
	rc.println(out)
	return nil
}
