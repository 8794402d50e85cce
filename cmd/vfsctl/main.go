// Command vfsctl is a demonstration CLI over an in-process
// *vfs.FileSystem: each invocation seeds a fresh filesystem from an
// optional YAML fixture (via pkg/bulkapply), performs one operation, and
// prints the result. It exists to exercise pkg/vfs and pkg/bulkapply the
// way cmd/fuss exercises pkg/overlay, not as a persistent filesystem
// service — there is no backing store between invocations.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vfscore/memvfs/pkg/bulkapply"
	"github.com/vfscore/memvfs/pkg/vfs"
	"github.com/vfscore/memvfs/pkg/vfsconst"
)

var fixturePath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "vfsctl",
		Short: "Inspect and drive an in-memory POSIX-like virtual filesystem",
		Long: `vfsctl seeds an in-memory virtual filesystem from a YAML fixture
(pkg/bulkapply) and runs a single operation against it.

Example:
  vfsctl --fixture testdata/tree.yaml ls /`,
	}
	rootCmd.PersistentFlags().StringVar(&fixturePath, "fixture", "", "YAML fixture applied to / before the command runs")

	rootCmd.AddCommand(
		mkdirCmd(),
		writeCmd(),
		catCmd(),
		hashCmd(),
		lsCmd(),
		statCmd(),
		applyCmd(),
		watchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		color.Red("vfsctl: %v", err)
		os.Exit(1)
	}
}

func newSeededFS() (*vfs.FileSystem, error) {
	fs := vfs.New(vfs.Options{})
	if fixturePath == "" {
		return fs, nil
	}
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	tree, err := bulkapply.LoadYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := bulkapply.Apply(fs, "/", tree, bulkapply.ApplyOptions{Mode: 0o755}); err != nil {
		return nil, fmt.Errorf("apply fixture: %w", err)
	}
	return fs, nil
}

func mkdirCmd() *cobra.Command {
	var mode uint32
	cmd := &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := newSeededFS()
			if err != nil {
				return err
			}
			if err := fs.Mkdir(args[0], mode); err != nil {
				return err
			}
			color.Green("created %s", args[0])
			return nil
		},
	}
	cmd.Flags().Uint32Var(&mode, "mode", 0o755, "permission bits")
	return cmd
}

func writeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write <path> <content>",
		Short: "Write a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := newSeededFS()
			if err != nil {
				return err
			}
			if err := fs.WriteFile(args[0], []byte(args[1]), 0o644); err != nil {
				return err
			}
			color.Green("wrote %d bytes to %s", len(args[1]), args[0])
			return nil
		},
	}
	return cmd
}

func catCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a file's contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := newSeededFS()
			if err != nil {
				return err
			}
			data, err := fs.ReadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <path>",
		Short: "Print a file's blake3 content hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := newSeededFS()
			if err != nil {
				return err
			}
			sum, err := fs.ContentHash(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", sum)
			return nil
		},
	}
}

func lsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <path>",
		Short: "List a directory's entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := newSeededFS()
			if err != nil {
				return err
			}
			names, err := fs.Readdir(args[0])
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func statCmd() *cobra.Command {
	var noFollow bool
	cmd := &cobra.Command{
		Use:   "stat <path>",
		Short: "Print a path's stat record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := newSeededFS()
			if err != nil {
				return err
			}
			var st vfs.Stat
			if noFollow {
				st, err = fs.Lstat(args[0])
			} else {
				st, err = fs.Stat(args[0])
			}
			if err != nil {
				return err
			}
			kind := "file"
			switch {
			case st.IsDir():
				kind = "dir"
			case st.IsSymbolicLink():
				kind = "symlink"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  mode=%04o  nlink=%d  size=%d  uid=%d  gid=%d\n",
				kind, st.Mode&0o1777, st.Nlink, st.Size, st.Uid, st.Gid)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&noFollow, "no-follow", "L", false, "do not follow a trailing symlink")
	return cmd
}

func applyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Apply --fixture to a fresh filesystem and print the resulting tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := newSeededFS()
			if err != nil {
				return err
			}
			return printTree(cmd, fs, "/", 0)
		},
	}
}

func printTree(cmd *cobra.Command, fs *vfs.FileSystem, path string, depth int) error {
	st, err := fs.Lstat(path)
	if err != nil {
		return err
	}
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	label := path
	if st.IsDir() {
		label = color.BlueString(path)
	} else if st.IsSymbolicLink() {
		label = color.CyanString(path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", indent, label)
	if !st.IsDir() {
		return nil
	}
	names, err := fs.Readdir(path)
	if err != nil {
		return err
	}
	for _, name := range names {
		child := path
		if child != "/" {
			child += "/"
		}
		child += name
		if err := printTree(cmd, fs, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <path>",
		Short: "Apply --fixture while watching path, printing every inotify event observed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := vfs.New(vfs.Options{})
			in := fs.InotifyInit(func(ev vfs.InotifyEvent) {
				fmt.Fprintf(cmd.OutOrStdout(), "wd=%d mask=%#x name=%q cookie=%d\n", ev.Wd, ev.Mask, ev.Name, ev.Cookie)
			})
			if err := fs.Mkdir(args[0], 0o755); err != nil && !errors.Is(err, vfs.ErrExist) {
				return err
			}
			if _, err := fs.InotifyAddWatch(in, args[0], vfsconst.IN_ALL_EVENTS); err != nil {
				return err
			}
			if fixturePath == "" {
				return fmt.Errorf("watch requires --fixture to generate events")
			}
			data, err := os.ReadFile(fixturePath)
			if err != nil {
				return err
			}
			tree, err := bulkapply.LoadYAML(data)
			if err != nil {
				return err
			}
			return bulkapply.Apply(fs, args[0], tree, bulkapply.ApplyOptions{Mode: 0o755})
		},
	}
}
