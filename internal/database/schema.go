package database

import "database/sql"

// Migrate creates the schema when absent. Both dialects declare the same
// constraints; the UNIQUE (user_id, check_date) pair on attendance_records
// is the load-bearing one: it is what makes a duplicate check-in impossible
// no matter how many requests race, since the store is the only
// synchronization point shared by concurrent handlers.
func Migrate(db *sql.DB, driver string) error {
	stmts := sqliteSchema
	if driver == "mysql" {
		stmts = mysqlSchema
	}
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'employee',
		name TEXT NOT NULL,
		department TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_allowed_ips (
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		address TEXT NOT NULL,
		UNIQUE (user_id, address)
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		employee_name TEXT NOT NULL,
		department TEXT NOT NULL,
		check_date TEXT NOT NULL,
		check_time TEXT NOT NULL,
		ip_address TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE (user_id, check_date)
	)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username VARCHAR(191) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(16) NOT NULL DEFAULT 'employee',
		name VARCHAR(191) NOT NULL,
		department VARCHAR(191) NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS user_allowed_ips (
		user_id BIGINT UNSIGNED NOT NULL,
		address VARCHAR(64) NOT NULL,
		UNIQUE KEY uq_allowed_user_address (user_id, address),
		CONSTRAINT fk_allowed_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS attendance_records (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		user_id BIGINT UNSIGNED NOT NULL,
		employee_name VARCHAR(191) NOT NULL,
		department VARCHAR(191) NOT NULL,
		check_date CHAR(10) NOT NULL,
		check_time CHAR(8) NOT NULL,
		ip_address VARCHAR(64) NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_attendance_user_date (user_id, check_date),
		CONSTRAINT fk_attendance_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}
