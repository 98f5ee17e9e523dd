package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase"
	"github.com/runoshun/taskboard/internal/validation"
)

// outputFlags selects a machine-readable output format.
type outputFlags struct {
	JSON bool
	YAML bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.JSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&o.YAML, "yaml", false, "Output in YAML format")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

// write encodes v in the selected format.
// It returns false when neither format was requested.
func (o *outputFlags) write(w io.Writer, v any) (bool, error) {
	switch {
	case o.JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case o.YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	default:
		return false, nil
	}
}

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title    string
		Priority string
		Assignee string
		Due      string
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task with the specified title and options.

The task starts in the todo state. Priority defaults to medium and the
assignee to "Unassigned".

Examples:
  # Create a simple task
  taskboard new --title "Write release notes"

  # Create a high priority task with an owner and due date
  taskboard new --title "Fix login bug" --priority high --assignee Dana --due 2025-07-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields := map[string]any{"title": opts.Title}
			if cmd.Flags().Changed("priority") {
				fields["priority"] = opts.Priority
			}
			if cmd.Flags().Changed("assignee") {
				fields["assignee"] = opts.Assignee
			}
			if cmd.Flags().Changed("due") {
				fields["dueDate"] = opts.Due
			}

			in, err := validation.CreateFromFields(fields)
			if err != nil {
				return err
			}

			uc := c.NewTaskUseCase()
			out, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required, 3-120 characters)")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Priority: "+priorityNames())
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "Assignee name (2-60 characters)")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// newListCommand creates the list command for listing tasks.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Query    string
		Status   string
		Priority string
		Sort     string
		Dir      string
		output   outputFlags
		Page     int
		PageSize int
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks with optional filtering, sorting and paging.

The text filter matches title and assignee, case-insensitively. Results are
sorted by updatedAt, newest first, unless --sort and --dir say otherwise.
Page sizes are clamped to 5..50.

Sort keys: ` + strings.Join(domain.SortKeys(), ", ") + `

Examples:
  # Most recently updated tasks
  taskboard list

  # Open high priority work for Dana
  taskboard list --q dana --status in_progress --priority high

  # Oldest first, second page of 20
  taskboard list --sort createdAt --dir asc --page 2 --page-size 20

  # Output in JSON format
  taskboard list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ListTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ListTasksInput{
				Query: domain.QuerySpec{
					Text:     opts.Query,
					Status:   opts.Status,
					Priority: opts.Priority,
					Sort:     opts.Sort,
					Dir:      domain.SortDirection(opts.Dir),
					Page:     opts.Page,
					PageSize: opts.PageSize,
				},
			})
			if err != nil {
				return err
			}

			if ok, err := opts.output.write(cmd.OutOrStdout(), out.Result); ok {
				return err
			}

			printTaskList(cmd.OutOrStdout(), out.Result)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Query, "q", "", "Filter by text in title or assignee")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status: "+statusNames())
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Filter by priority: "+priorityNames())
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort key (default updatedAt)")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "Sort direction: asc or desc (default desc)")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", domain.DefaultPageSize, "Tasks per page")
	opts.output.register(cmd)

	return cmd
}

// printTaskList prints one page of tasks as a table followed by a paging footer.
func printTaskList(w io.Writer, res domain.QueryResult) {
	styles := newStyles(w)

	if len(res.Items) == 0 {
		if res.Meta.Total == 0 {
			_, _ = fmt.Fprintln(w, "No tasks found.")
		} else {
			_, _ = fmt.Fprintf(w, "No tasks on page %d (%d total).\n", res.Meta.Page, res.Meta.Total)
		}
		return
	}

	header := []string{"ID", "STATUS", "PRIORITY", "DUE", "ASSIGNEE", "TITLE"}
	rows := make([][]string, len(res.Items))
	for i, task := range res.Items {
		due := "-"
		if task.HasDueDate() {
			due = *task.DueDate
		}
		rows[i] = []string{
			fmt.Sprintf("%d", task.ID),
			string(task.Status),
			string(task.Priority),
			due,
			task.Assignee,
			task.Title,
		}
	}

	// Pad before styling so escape sequences do not skew the columns
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len([]rune(cell)))
		}
	}
	pad := func(s string, col int) string {
		if col == len(widths)-1 {
			return s
		}
		return s + strings.Repeat(" ", widths[col]-len([]rune(s))+3)
	}

	var b strings.Builder
	for i, h := range header {
		b.WriteString(styles.Header.Render(pad(h, i)))
	}
	_, _ = fmt.Fprintln(w, strings.TrimRight(b.String(), " "))

	for r, row := range rows {
		task := res.Items[r]
		b.Reset()
		for i, cell := range row {
			text := pad(cell, i)
			switch i {
			case 1:
				text = styles.StatusStyle(task.Status).Render(text)
			case 2:
				text = styles.PriorityStyle(task.Priority).Render(text)
			}
			b.WriteString(text)
		}
		_, _ = fmt.Fprintln(w, b.String())
	}

	meta := res.Meta
	footer := fmt.Sprintf("Page %d of %d (%d tasks, sorted by %s %s)",
		meta.Page, meta.PageCount(), meta.Total, meta.Sort, meta.Dir)
	_, _ = fmt.Fprintln(w, styles.Muted.Render(footer))
}

// newShowCommand creates the show command for displaying task details.
func newShowCommand(c *app.Container) *cobra.Command {
	var output outputFlags

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display task details",
		Long: `Display detailed information about a task.

Examples:
  # Show task by ID
  taskboard show 1

  # Output in YAML format
  taskboard show 1 --yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			uc := c.ShowTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}

			if ok, err := output.write(cmd.OutOrStdout(), out.Task); ok {
				return err
			}

			printTaskDetails(cmd.OutOrStdout(), out.Task)
			return nil
		},
	}

	output.register(cmd)

	return cmd
}

// printTaskDetails prints a task as a list of labelled fields.
func printTaskDetails(w io.Writer, task domain.Task) {
	styles := newStyles(w)

	_, _ = fmt.Fprintf(w, "# Task %d: %s\n\n", task.ID, task.Title)

	due := "none"
	if task.HasDueDate() {
		due = *task.DueDate
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Status:\t%s\n", styles.StatusStyle(task.Status).Render(task.Status.Display()))
	_, _ = fmt.Fprintf(tw, "Priority:\t%s\n", styles.PriorityStyle(task.Priority).Render(task.Priority.Display()))
	_, _ = fmt.Fprintf(tw, "Assignee:\t%s\n", task.Assignee)
	_, _ = fmt.Fprintf(tw, "Due:\t%s\n", due)
	_, _ = fmt.Fprintf(tw, "Created:\t%s\n", task.CreatedAt.Format(time.RFC3339))
	_, _ = fmt.Fprintf(tw, "Updated:\t%s\n", task.UpdatedAt.Format(time.RFC3339))
	_ = tw.Flush()
}

// newEditCommand creates the edit command for patching a task.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title    string
		Status   string
		Priority string
		Assignee string
		Due      string
		ClearDue bool
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit task information",
		Long: `Edit an existing task. Only the given fields change; the update time is
always refreshed.

Examples:
  # Start working on a task
  taskboard edit 1 --status in_progress

  # Reassign and reprioritise
  taskboard edit 1 --assignee Lee --priority low

  # Remove the due date
  taskboard edit 1 --clear-due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			fields := map[string]any{}
			flags := cmd.Flags()
			if flags.Changed("title") {
				fields["title"] = opts.Title
			}
			if flags.Changed("status") {
				fields["status"] = opts.Status
			}
			if flags.Changed("priority") {
				fields["priority"] = opts.Priority
			}
			if flags.Changed("assignee") {
				fields["assignee"] = opts.Assignee
			}
			if flags.Changed("due") {
				fields["dueDate"] = opts.Due
			}
			if opts.ClearDue {
				fields["dueDate"] = nil
			}
			if len(fields) == 0 {
				return domain.ErrNoFieldsToUpdate
			}

			in, err := validation.UpdateFromFields(fields)
			if err != nil {
				return err
			}
			in.TaskID = taskID

			uc := c.EditTaskUseCase()
			out, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Status, "status", "", "New status: "+statusNames())
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "New priority: "+priorityNames())
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "New assignee")
	cmd.Flags().StringVar(&opts.Due, "due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.ClearDue, "clear-due", false, "Remove the due date")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")

	return cmd
}

// newDeleteCommand creates the delete command.
func newDeleteCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Long: `Delete a task permanently. Its ID is never reused.

Examples:
  taskboard delete 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			uc := c.DeleteTaskUseCase()
			if _, err := uc.Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: taskID}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", taskID)
			return nil
		},
	}
}

func statusNames() string {
	names := make([]string, 0, len(domain.AllStatuses()))
	for _, s := range domain.AllStatuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func priorityNames() string {
	names := make([]string, 0, len(domain.AllPriorities()))
	for _, p := range domain.AllPriorities() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// parseTaskID parses a task ID string to int.
func parseTaskID(s string) (int, error) {
	// Remove leading # if present
	s = strings.TrimPrefix(s, "#")
	var id int
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid task ID %q: %w", s, err)
	}
	if id <= 0 {
		return 0, domain.ErrInvalidTaskID
	}
	return id, nil
}
