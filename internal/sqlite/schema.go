package sqlite

// tableName is the single persisted table.
const tableName = "todo_table"

// Schema DDL. AUTOINCREMENT keeps SQLite from handing out the id of a
// deleted row again. Dates are stored as YYYY-MM-DD text.
const (
	createTodos = `CREATE TABLE IF NOT EXISTS todo_table (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT,
    created_at DATE NOT NULL,
    due_at DATE,
    done BOOLEAN NOT NULL DEFAULT 0
);`

	idxTodosDone = `CREATE INDEX IF NOT EXISTS idx_todo_table_done ON todo_table(done);`
)

// schemaDDL lists every statement EnsureInitialized runs, in order.
var schemaDDL = []string{
	createTodos,
	idxTodosDone,
}

// todoColumns is the select list shared by every read.
const todoColumns = "id, title, description, created_at, due_at, done"
