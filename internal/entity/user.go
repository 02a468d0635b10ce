package entity

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"` // In production, you'd store hashed passwords.
}

type Address struct {
	ID         int    `json:"id"`
	UserID     int    `json:"user_id"`
	Line1      string `json:"line1"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

/*
Mysql Schema:

CREATE TABLE users (
	id INT AUTO_INCREMENT PRIMARY KEY,
	username VARCHAR(50) NOT NULL,
	email VARCHAR(50) NOT NULL,
	password VARCHAR(255) NOT NULL
);

CREATE TABLE addresses (
	id INT AUTO_INCREMENT PRIMARY KEY,
	user_id INT NOT NULL REFERENCES users(id),
	line1 VARCHAR(255) NOT NULL,
	city VARCHAR(100) NOT NULL,
	postal_code VARCHAR(20) NOT NULL
);
*/
