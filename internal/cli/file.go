package cli

import (
	"context"
	"io"

	"github.com/alecthomas/kong"

	"github.com/mcncl/scriptkit/internal/formatter"
)

// FileCLI is the grammar of the file tool.
type FileCLI struct {
	Globals Globals `embed:""`

	Read   fileReadCmd   `cmd:"" help:"Print the contents of a file."`
	Write  fileWriteCmd  `cmd:"" help:"Replace the contents of a file."`
	Append fileAppendCmd `cmd:"" help:"Append to a file, creating it if needed."`
	Copy   fileCopyCmd   `cmd:"" help:"Copy a file."`
	Move   fileMoveCmd   `cmd:"" help:"Move a file."`
	Delete filePathCmd   `cmd:"" help:"Delete a file or directory tree."`
	Exists filePathCmd   `cmd:"" help:"Report whether a path exists."`
	List   fileListCmd   `cmd:"" help:"List a directory."`
	Mkdir  filePathCmd   `cmd:"" help:"Create a directory and its parents."`
	Rmdir  filePathCmd   `cmd:"" help:"Remove a directory and everything under it."`
	Size   fileSizeCmd   `cmd:"" help:"Print the size of a file."`
}

// RunFile runs the file tool and returns its exit code.
func RunFile(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...Option) int {
	var cli FileCLI
	return tool{
		name:        "file",
		description: "File system utilities.",
		grammar:     &cli,
		globals:     &cli.Globals,
	}.run(ctx, args, stdout, stderr, opts)
}

type fileReadCmd struct {
	Path string `arg:"" help:"File to read."`
}

func (c *fileReadCmd) Run(rc *RunContext) error {
	content, err := rc.FS.Read(c.Path)
	if err != nil {
		return err
	}
	rc.println(content)
	return nil
}

type fileWriteCmd struct {
	Path    string `arg:"" help:"File to write."`
	Content string `arg:"" help:"New contents."`
}

func (c *fileWriteCmd) Run(rc *RunContext) error {
	if err := rc.FS.Write(c.Path, c.Content); err != nil {
		return err
	}
	rc.printf("Successfully wrote file: %s\n", c.Path)
	return nil
}

type fileAppendCmd struct {
	Path    string `arg:"" help:"File to append to."`
	Content string `arg:"" help:"Text to append."`
}

func (c *fileAppendCmd) Run(rc *RunContext) error {
	if err := rc.FS.Append(c.Path, c.Content); err != nil {
		return err
	}
	rc.printf("Successfully appended to file: %s\n", c.Path)
	return nil
}

type fileCopyCmd struct {
	Source string `arg:"" help:"Existing file."`
	Dest   string `arg:"" help:"Destination path."`
}

func (c *fileCopyCmd) Run(rc *RunContext) error {
	if err := rc.FS.Copy(c.Source, c.Dest); err != nil {
		return err
	}
	rc.printf("Successfully copied file: %s -> %s\n", c.Source, c.Dest)
	return nil
}

type fileMoveCmd struct {
	Source string `arg:"" help:"Existing file."`
	Dest   string `arg:"" help:"Destination path."`
}

func (c *fileMoveCmd) Run(rc *RunContext) error {
	if err := rc.FS.Move(c.Source, c.Dest); err != nil {
		return err
	}
	rc.printf("Successfully moved file: %s -> %s\n", c.Source, c.Dest)
	return nil
}

// filePathCmd backs the single-path commands; the selected command name
// picks the operation.
type filePathCmd struct {
	Path string `arg:"" help:"Target path."`
}

func (c *filePathCmd) Run(rc *RunContext, kctx *kong.Context) error {
	switch kctx.Selected().Name {
	case "delete":
		if err := rc.FS.Delete(c.Path); err != nil {
			return err
		}
		rc.printf("Successfully deleted: %s\n", c.Path)
	case "exists":
		ok, err := rc.FS.Exists(c.Path)
		if err != nil {
			return err
		}
		if ok {
			rc.printf("File exists: %s\n", c.Path)
		} else {
			rc.printf("File does not exist: %s\n", c.Path)
		}
	case "mkdir":
		if err := rc.FS.Mkdir(c.Path); err != nil {
			return err
		}
		rc.printf("Successfully created directory: %s\n", c.Path)
	case "rmdir":
		if err := rc.FS.Rmdir(c.Path); err != nil {
			return err
		}
		rc.printf("Successfully removed directory: %s\n", c.Path)
	}
	return nil
}

type fileListCmd struct {
	Dir string `arg:"" help:"Directory to list."`
}

func (c *fileListCmd) Run(rc *RunContext) error {
	entries, err := rc.FS.List(c.Dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		rc.printf("Directory is empty: %s\n", c.Dir)
		return nil
	}
	rc.printf("Contents of %s:\n", c.Dir)
	for _, e := range entries {
		if e.IsDir {
			rc.printf("[DIR] %s (<dir>)\n", e.Path)
			continue
		}
		rc.printf("[FILE] %s (%s)\n", e.Path, formatter.FormatBytes(e.Size))
	}
	return nil
}

type fileSizeCmd struct {
	Path string `arg:"" help:"File to measure."`
}

func (c *fileSizeCmd) Run(rc *RunContext) error {
	size, err := rc.FS.Size(c.Path)
	if err != nil {
		return err
	}
	rc.printf("File size: %s - %s\n", c.Path, formatter.FormatBytes(size))
	return nil
}
